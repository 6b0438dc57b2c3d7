// Package domain models the configurable billing parameters. Values are
// schema-free key/value pairs resolved to a typed Value at read time so type
// errors surface at the boundary, not in arithmetic.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Well-known setting keys. Unknown keys are permitted; Set upserts.
const (
	KeyRatePerUnit      = "water_rate_per_unit"
	KeyCurrency         = "currency"
	KeyBillingCycleDays = "billing_cycle_days"
	KeyLateFeePercent   = "late_fee_percent"
	KeyGraceDays        = "grace_days"
	KeyDueDays          = "due_days"
)

type Setting struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Key         string       `gorm:"type:text;not null;uniqueIndex" json:"key"`
	Value       string       `gorm:"type:text;not null" json:"value"`
	Description *string      `gorm:"type:text" json:"description,omitempty"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Setting) TableName() string { return "settings" }

type Kind int

const (
	KindText Kind = iota
	KindNumeric
)

// Value is the tagged union handed out by typed getters.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
}

// Snapshot is the set of billing parameters captured once at bill generation.
// Rate and currency are copied onto the bill; a later settings change never
// alters an existing bill.
type Snapshot struct {
	RatePerUnit      float64 `json:"rate_per_unit"`
	Currency         string  `json:"currency"`
	BillingCycleDays int     `json:"billing_cycle_days"`
	LateFeePercent   float64 `json:"late_fee_percent"`
	GraceDays        int     `json:"grace_days"`
	DueDays          int     `json:"due_days"`
}

// Defaults mirror the values the seeder installs, so a snapshot is usable
// even on a store that was never seeded.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		RatePerUnit:      2.50,
		Currency:         "USD",
		BillingCycleDays: 30,
		LateFeePercent:   0,
		GraceDays:        0,
		DueDays:          15,
	}
}
