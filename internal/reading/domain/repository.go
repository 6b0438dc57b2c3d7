package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, reading *Reading) error

	// Latest returns the reading with the greatest ReadAt, or nil.
	Latest(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*Reading, error)

	// AtOrBefore returns the reading with the greatest ReadAt <= at, or nil.
	AtOrBefore(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, at time.Time) (*Reading, error)

	// EarliestAtOrAfter returns the reading with the smallest ReadAt >= at,
	// or nil. Used as the baseline for tenants with no prior reading.
	EarliestAtOrAfter(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, at time.Time) (*Reading, error)

	// InRange returns readings with start <= ReadAt < end, ascending.
	InRange(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, start, end time.Time) ([]Reading, error)

	// ListAsc returns all readings for a tenant ascending by ReadAt.
	ListAsc(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]Reading, error)
}

type Service interface {
	Add(ctx context.Context, req AddReadingRequest) (*Reading, error)
	Latest(ctx context.Context, tenantCode string) (*Reading, error)
	AtOrBefore(ctx context.Context, tenantCode string, at time.Time) (*Reading, error)
	InRange(ctx context.Context, tenantCode string, start, end time.Time) ([]Reading, error)
	List(ctx context.Context, tenantCode string) ([]Reading, error)
}
