// Package domain holds the tenant directory models. Tenants are never
// physically deleted; deactivation keeps historical readings and bills valid.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)

type Tenant struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Apartment string       `gorm:"type:text;not null" json:"apartment"`
	Phone     *string      `gorm:"type:text" json:"phone,omitempty"`
	Email     *string      `gorm:"type:text" json:"email,omitempty"`
	Status    TenantStatus `gorm:"type:text;not null" json:"status"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

func (t *Tenant) Active() bool { return t.Status == TenantStatusActive }

type CreateTenantRequest struct {
	Code      string  `json:"code" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Apartment string  `json:"apartment" binding:"required"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
}

type UpdateTenantRequest struct {
	Name      *string `json:"name,omitempty"`
	Apartment *string `json:"apartment,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
}
