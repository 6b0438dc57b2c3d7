package repository

import (
	"context"
	"time"

	readingdomain "github.com/aquabill-labs/aquabill/internal/reading/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() readingdomain.Repository {
	return &repo{}
}

const readingColumns = `id, tenant_id, value, read_at, recorded_at, note, recorded_by`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, reading *readingdomain.Reading) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO readings (id, tenant_id, value, read_at, recorded_at, note, recorded_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reading.ID,
		reading.TenantID,
		reading.Value,
		reading.ReadAt,
		reading.RecordedAt,
		reading.Note,
		reading.RecordedBy,
	).Error
}

func (r *repo) Latest(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*readingdomain.Reading, error) {
	var reading readingdomain.Reading
	err := db.WithContext(ctx).Raw(
		`SELECT `+readingColumns+`
		 FROM readings WHERE tenant_id = ?
		 ORDER BY read_at DESC, id DESC LIMIT 1`,
		tenantID,
	).Scan(&reading).Error
	if err != nil {
		return nil, err
	}
	if reading.ID == 0 {
		return nil, nil
	}
	return &reading, nil
}

func (r *repo) AtOrBefore(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, at time.Time) (*readingdomain.Reading, error) {
	var reading readingdomain.Reading
	err := db.WithContext(ctx).Raw(
		`SELECT `+readingColumns+`
		 FROM readings WHERE tenant_id = ? AND read_at <= ?
		 ORDER BY read_at DESC, id DESC LIMIT 1`,
		tenantID,
		at,
	).Scan(&reading).Error
	if err != nil {
		return nil, err
	}
	if reading.ID == 0 {
		return nil, nil
	}
	return &reading, nil
}

func (r *repo) EarliestAtOrAfter(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, at time.Time) (*readingdomain.Reading, error) {
	var reading readingdomain.Reading
	err := db.WithContext(ctx).Raw(
		`SELECT `+readingColumns+`
		 FROM readings WHERE tenant_id = ? AND read_at >= ?
		 ORDER BY read_at ASC, id ASC LIMIT 1`,
		tenantID,
		at,
	).Scan(&reading).Error
	if err != nil {
		return nil, err
	}
	if reading.ID == 0 {
		return nil, nil
	}
	return &reading, nil
}

func (r *repo) InRange(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, start, end time.Time) ([]readingdomain.Reading, error) {
	var readings []readingdomain.Reading
	err := db.WithContext(ctx).Raw(
		`SELECT `+readingColumns+`
		 FROM readings WHERE tenant_id = ? AND read_at >= ? AND read_at < ?
		 ORDER BY read_at ASC, id ASC`,
		tenantID,
		start,
		end,
	).Scan(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *repo) ListAsc(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]readingdomain.Reading, error) {
	var readings []readingdomain.Reading
	err := db.WithContext(ctx).Raw(
		`SELECT `+readingColumns+`
		 FROM readings WHERE tenant_id = ?
		 ORDER BY read_at ASC, id ASC`,
		tenantID,
	).Scan(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}
