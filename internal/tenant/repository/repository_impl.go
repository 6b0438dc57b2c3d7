package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/aquabill-labs/aquabill/internal/tenant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() tenantdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, t *tenantdomain.Tenant) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tenants (id, code, name, apartment, phone, email, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Code,
		t.Name,
		t.Apartment,
		t.Phone,
		t.Email,
		t.Status,
		t.CreatedAt,
		t.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, t *tenantdomain.Tenant) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tenants
		 SET name = ?, apartment = ?, phone = ?, email = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		t.Name,
		t.Apartment,
		t.Phone,
		t.Email,
		t.Status,
		t.UpdatedAt,
		t.ID,
	).Error
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*tenantdomain.Tenant, error) {
	var tenant tenantdomain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, apartment, phone, email, status, created_at, updated_at
		 FROM tenants WHERE code = ?`,
		code,
	).Scan(&tenant).Error
	if err != nil {
		return nil, err
	}
	if tenant.ID == 0 {
		return nil, nil
	}
	return &tenant, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*tenantdomain.Tenant, error) {
	var tenant tenantdomain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, apartment, phone, email, status, created_at, updated_at
		 FROM tenants WHERE id = ?`,
		id,
	).Scan(&tenant).Error
	if err != nil {
		return nil, err
	}
	if tenant.ID == 0 {
		return nil, nil
	}
	return &tenant, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB) ([]tenantdomain.Tenant, error) {
	var tenants []tenantdomain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, apartment, phone, email, status, created_at, updated_at
		 FROM tenants WHERE status = ? ORDER BY apartment ASC`,
		tenantdomain.TenantStatusActive,
	).Scan(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]tenantdomain.Tenant, error) {
	var tenants []tenantdomain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, apartment, phone, email, status, created_at, updated_at
		 FROM tenants ORDER BY apartment ASC`,
	).Scan(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}
