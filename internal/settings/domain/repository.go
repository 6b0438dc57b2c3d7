package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrSettingNotFound = errors.New("setting_not_found")
	ErrInvalidValue    = errors.New("setting_invalid_value")
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, setting *Setting) error
	FindByKey(ctx context.Context, db *gorm.DB, key string) (*Setting, error)
	List(ctx context.Context, db *gorm.DB) ([]Setting, error)
}

type Service interface {
	// Get resolves the stored string into a typed Value. Fails with
	// ErrSettingNotFound for unknown keys.
	Get(ctx context.Context, key string) (Value, error)

	// GetText fails with ErrSettingNotFound for unknown keys.
	GetText(ctx context.Context, key string) (string, error)

	// GetNumber additionally fails with ErrInvalidValue when the stored
	// value does not parse as a number.
	GetNumber(ctx context.Context, key string) (float64, error)

	// Set upserts; unknown keys are created.
	Set(ctx context.Context, key, value string, description *string) (*Setting, error)

	List(ctx context.Context) ([]Setting, error)

	// Snapshot reads all billing parameters as one consistent view.
	// Missing keys fall back to defaults; malformed numerics fail with
	// ErrInvalidValue rather than silently defaulting.
	Snapshot(ctx context.Context) (Snapshot, error)
}
