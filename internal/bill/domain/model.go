// Package domain holds the bill ledger models and the pure billing
// calculator. Bills are immutable once generated except for status and the
// paid timestamp; they are never deleted.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type BillStatus string

const (
	BillStatusGenerated BillStatus = "generated"
	BillStatusPaid      BillStatus = "paid"
	BillStatusOverdue   BillStatus = "overdue"
	BillStatusCancelled BillStatus = "cancelled"
)

// Terminal reports whether no further status transition is allowed.
func (s BillStatus) Terminal() bool {
	return s == BillStatusPaid || s == BillStatusCancelled
}

// Outstanding reports whether the bill still awaits payment.
func (s BillStatus) Outstanding() bool {
	return s == BillStatusGenerated || s == BillStatusOverdue
}

type Bill struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID snowflake.ID `gorm:"not null;index" json:"tenant_id"`

	// Billing period is half-open: [PeriodStart, PeriodEnd).
	PeriodStart time.Time `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"not null" json:"period_end"`

	// Bounding readings. Nullable: a period may be billed from synthesized
	// bounds (new tenant baseline policy).
	StartReadingID *snowflake.ID `gorm:"index" json:"start_reading_id,omitempty"`
	EndReadingID   *snowflake.ID `gorm:"index" json:"end_reading_id,omitempty"`

	UnitsConsumed float64 `gorm:"not null" json:"units_consumed"`

	// Rate and currency are snapshots taken at generation time. A later
	// settings change must not alter this bill.
	RatePerUnit float64 `gorm:"not null" json:"rate_per_unit"`
	Amount      float64 `gorm:"not null" json:"amount"`
	Currency    string  `gorm:"type:text;not null" json:"currency"`

	Status      BillStatus `gorm:"type:text;not null;index" json:"status"`
	GeneratedAt time.Time  `gorm:"not null" json:"generated_at"`
	DueAt       time.Time  `gorm:"not null" json:"due_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

// TableName sets the database table name.
func (Bill) TableName() string { return "bills" }

// Draft is the calculator output before persistence.
type Draft struct {
	TenantID       snowflake.ID
	PeriodStart    time.Time
	PeriodEnd      time.Time
	StartReadingID *snowflake.ID
	EndReadingID   *snowflake.ID
	UnitsConsumed  float64
	RatePerUnit    float64
	Amount         float64
	Currency       string
}

type GenerateBillRequest struct {
	TenantCode  string    `json:"tenant_code" binding:"required"`
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`

	// DueDays overrides the due_days setting when > 0.
	DueDays int `json:"due_days,omitempty"`
}
