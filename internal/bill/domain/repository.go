package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrBillNotFound        = errors.New("bill_not_found")
	ErrInvalidPeriod       = errors.New("invalid_billing_period")
	ErrInsufficientData    = errors.New("insufficient_reading_data")
	ErrNegativeConsumption = errors.New("negative_consumption")
	ErrOverlappingPeriod   = errors.New("overlapping_billing_period")
	ErrAlreadyPaid         = errors.New("bill_already_paid")
	ErrBillClosed          = errors.New("bill_closed")
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)

	// CountOverlapping counts non-cancelled bills for the tenant whose
	// half-open period intersects [start, end).
	CountOverlapping(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, start, end time.Time) (int64, error)

	// MarkPaid transitions generated/overdue to paid. Returns the number of
	// rows changed so a lost race never double-applies the paid timestamp.
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paidAt time.Time) (int64, error)

	// MarkCancelled transitions generated to cancelled.
	MarkCancelled(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)

	// MarkOverdue transitions every generated bill with DueAt < cutoff to
	// overdue, returning how many rows changed.
	MarkOverdue(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)

	// ListOutstanding returns generated and overdue bills ordered by DueAt
	// ascending; tenantID 0 means all tenants.
	ListOutstanding(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]Bill, error)

	ListByTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]Bill, error)
}

type Service interface {
	// Generate computes and persists a bill. The overlap check and the
	// insert run in a single transaction so two concurrent generations for
	// the same tenant and period cannot both commit.
	Generate(ctx context.Context, req GenerateBillRequest) (*Bill, error)

	// MarkPaid fails with ErrAlreadyPaid on a bill that is already paid
	// and ErrBillClosed on a cancelled bill. Chosen policy: second call is
	// an error, never a silent re-application.
	MarkPaid(ctx context.Context, id snowflake.ID) (*Bill, error)

	// Cancel is administrative; only generated bills may be cancelled.
	Cancel(ctx context.Context, id snowflake.ID) (*Bill, error)

	// MarkOverdue sweeps generated bills past due as of asOf, honoring the
	// grace_days setting. Invoked explicitly; there is no internal timer.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)

	ListOutstanding(ctx context.Context, tenantCode string) ([]Bill, error)
	ListByTenant(ctx context.Context, tenantCode string) ([]Bill, error)
	Get(ctx context.Context, id snowflake.ID) (*Bill, error)
}
