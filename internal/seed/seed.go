// Package seed installs default settings and a small demo dataset. Seeding
// is idempotent: existing tenants and settings are left alone.
package seed

import (
	"context"
	"errors"
	"time"

	readingdomain "github.com/aquabill-labs/aquabill/internal/reading/domain"
	settingsdomain "github.com/aquabill-labs/aquabill/internal/settings/domain"
	tenantdomain "github.com/aquabill-labs/aquabill/internal/tenant/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type defaultSetting struct {
	key         string
	value       string
	description string
}

var defaultSettings = []defaultSetting{
	{settingsdomain.KeyRatePerUnit, "2.50", "Billing rate per unit of water"},
	{settingsdomain.KeyCurrency, "USD", "Currency code snapshotted onto bills"},
	{settingsdomain.KeyBillingCycleDays, "30", "Default billing cycle length in days"},
	{settingsdomain.KeyLateFeePercent, "0", "Late fee percentage applied to overdue bills"},
	{settingsdomain.KeyGraceDays, "0", "Days past due before the overdue sweep applies"},
	{settingsdomain.KeyDueDays, "15", "Days from generation to due date"},
}

type demoTenant struct {
	code      string
	name      string
	apartment string
	phone     string
	email     string
	initial   float64
	current   float64
}

var demoTenants = []demoTenant{
	{"T001", "John Doe", "A101", "555-1234", "john.doe@email.com", 1000.0, 1150.0},
	{"T002", "Jane Smith", "B205", "555-5678", "jane.smith@email.com", 2000.0, 2080.0},
	{"T003", "Bob Johnson", "C303", "555-9012", "bob.johnson@email.com", 1500.0, 1650.0},
	{"T004", "Alice Walker", "D404", "555-3456", "alice.walker@email.com", 1000.0, 1250.0},
}

// EnsureDefaults seeds settings and the demo tenants with one month of
// readings each.
func EnsureDefaults(db *gorm.DB, now time.Time) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	now = now.UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSettings(ctx, tx, node, now); err != nil {
			return err
		}
		return ensureDemoTenants(ctx, tx, node, now)
	})
}

func ensureSettings(ctx context.Context, tx *gorm.DB, node *snowflake.Node, now time.Time) error {
	for _, s := range defaultSettings {
		var count int64
		if err := tx.WithContext(ctx).Raw(
			`SELECT COUNT(*) FROM settings WHERE key = ?`, s.key,
		).Scan(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		description := s.description
		if err := tx.WithContext(ctx).Exec(
			`INSERT INTO settings (id, key, value, description, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			node.Generate(), s.key, s.value, description, now,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureDemoTenants(ctx context.Context, tx *gorm.DB, node *snowflake.Node, now time.Time) error {
	previousMonth := now.AddDate(0, 0, -30)

	for _, d := range demoTenants {
		var existing tenantdomain.Tenant
		if err := tx.WithContext(ctx).Raw(
			`SELECT id FROM tenants WHERE code = ?`, d.code,
		).Scan(&existing).Error; err != nil {
			return err
		}
		if existing.ID != 0 {
			continue
		}

		phone := d.phone
		email := d.email
		tenant := tenantdomain.Tenant{
			ID:        node.Generate(),
			Code:      d.code,
			Name:      d.name,
			Apartment: d.apartment,
			Phone:     &phone,
			Email:     &email,
			Status:    tenantdomain.TenantStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Exec(
			`INSERT INTO tenants (id, code, name, apartment, phone, email, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tenant.ID, tenant.Code, tenant.Name, tenant.Apartment,
			tenant.Phone, tenant.Email, tenant.Status, tenant.CreatedAt, tenant.UpdatedAt,
		).Error; err != nil {
			return err
		}

		initialNote := "Initial reading"
		monthlyNote := "Monthly reading"
		readings := []readingdomain.Reading{
			{
				ID:         node.Generate(),
				TenantID:   tenant.ID,
				Value:      d.initial,
				ReadAt:     previousMonth,
				RecordedAt: now,
				Note:       &initialNote,
			},
			{
				ID:         node.Generate(),
				TenantID:   tenant.ID,
				Value:      d.current,
				ReadAt:     now,
				RecordedAt: now,
				Note:       &monthlyNote,
			},
		}
		for _, reading := range readings {
			if err := tx.WithContext(ctx).Exec(
				`INSERT INTO readings (id, tenant_id, value, read_at, recorded_at, note, recorded_by)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				reading.ID, reading.TenantID, reading.Value, reading.ReadAt,
				reading.RecordedAt, reading.Note, reading.RecordedBy,
			).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
