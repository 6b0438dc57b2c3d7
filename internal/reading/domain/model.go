// Package domain holds the meter-reading ledger models. The ledger is an
// honest append-only record: values are stored exactly as observed, including
// decreases from meter replacement. Anomalies surface at bill time, not here.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Reading struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID snowflake.ID `gorm:"not null;index:idx_readings_tenant_read_at" json:"tenant_id"`

	// Value is the raw meter counter, not a delta.
	Value float64 `gorm:"not null" json:"value"`

	// ReadAt is when the meter was read; RecordedAt is when the row was
	// written. Ordering and period resolution always use ReadAt.
	ReadAt     time.Time `gorm:"not null;index:idx_readings_tenant_read_at" json:"read_at"`
	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`

	Note       *string `gorm:"type:text" json:"note,omitempty"`
	RecordedBy *string `gorm:"type:text" json:"recorded_by,omitempty"`
}

// TableName sets the database table name.
func (Reading) TableName() string { return "readings" }

type AddReadingRequest struct {
	TenantCode string    `json:"tenant_code" binding:"required"`
	Value      float64   `json:"value" binding:"min=0"`
	ReadAt     time.Time `json:"read_at" binding:"required"`
	Note       *string   `json:"note,omitempty"`
	RecordedBy *string   `json:"recorded_by,omitempty"`
}
