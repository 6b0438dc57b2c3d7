package repository

import (
	"context"

	settingsdomain "github.com/aquabill-labs/aquabill/internal/settings/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() settingsdomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, s *settingsdomain.Setting) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO settings (id, key, value, description, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (key)
		 DO UPDATE SET value = excluded.value,
		               description = COALESCE(excluded.description, settings.description),
		               updated_at = excluded.updated_at`,
		s.ID,
		s.Key,
		s.Value,
		s.Description,
		s.UpdatedAt,
	).Error
}

func (r *repo) FindByKey(ctx context.Context, db *gorm.DB, key string) (*settingsdomain.Setting, error) {
	var setting settingsdomain.Setting
	err := db.WithContext(ctx).Raw(
		`SELECT id, key, value, description, updated_at
		 FROM settings WHERE key = ?`,
		key,
	).Scan(&setting).Error
	if err != nil {
		return nil, err
	}
	if setting.ID == 0 {
		return nil, nil
	}
	return &setting, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]settingsdomain.Setting, error) {
	var settings []settingsdomain.Setting
	err := db.WithContext(ctx).Raw(
		`SELECT id, key, value, description, updated_at
		 FROM settings ORDER BY key ASC`,
	).Scan(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}
