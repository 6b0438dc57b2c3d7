package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrTenantNotFound  = errors.New("tenant_not_found")
	ErrTenantInactive  = errors.New("tenant_inactive")
	ErrCodeAlreadyUsed = errors.New("tenant_code_already_used")
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	Update(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Tenant, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tenant, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]Tenant, error)
	List(ctx context.Context, db *gorm.DB) ([]Tenant, error)
}

type Service interface {
	Create(ctx context.Context, req CreateTenantRequest) (*Tenant, error)
	Update(ctx context.Context, code string, req UpdateTenantRequest) (*Tenant, error)
	Deactivate(ctx context.Context, code string) (*Tenant, error)
	Get(ctx context.Context, code string) (*Tenant, error)
	ListActive(ctx context.Context) ([]Tenant, error)

	// ResolveActive returns the tenant for code, failing with
	// ErrTenantNotFound or ErrTenantInactive. Used by the reading and
	// billing ledgers to validate tenant references.
	ResolveActive(ctx context.Context, code string) (*Tenant, error)
}
