package repository

import (
	"context"
	"time"

	billdomain "github.com/aquabill-labs/aquabill/internal/bill/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() billdomain.Repository {
	return &repo{}
}

const billColumns = `id, tenant_id, period_start, period_end, start_reading_id, end_reading_id,
	units_consumed, rate_per_unit, amount, currency, status, generated_at, due_at, paid_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, b *billdomain.Bill) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO bills (id, tenant_id, period_start, period_end, start_reading_id, end_reading_id,
		                    units_consumed, rate_per_unit, amount, currency, status, generated_at, due_at, paid_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.TenantID,
		b.PeriodStart,
		b.PeriodEnd,
		b.StartReadingID,
		b.EndReadingID,
		b.UnitsConsumed,
		b.RatePerUnit,
		b.Amount,
		b.Currency,
		b.Status,
		b.GeneratedAt,
		b.DueAt,
		b.PaidAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billdomain.Bill, error) {
	var bill billdomain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT `+billColumns+` FROM bills WHERE id = ?`,
		id,
	).Scan(&bill).Error
	if err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

// Half-open intervals [a, b) and [c, d) overlap iff a < d AND c < b.
func (r *repo) CountOverlapping(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, start, end time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM bills
		 WHERE tenant_id = ? AND status <> ? AND period_start < ? AND ? < period_end`,
		tenantID,
		billdomain.BillStatusCancelled,
		end,
		start,
	).Scan(&count).Error
	return count, err
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paidAt time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bills SET status = ?, paid_at = ?
		 WHERE id = ? AND status IN (?, ?)`,
		billdomain.BillStatusPaid,
		paidAt,
		id,
		billdomain.BillStatusGenerated,
		billdomain.BillStatusOverdue,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) MarkCancelled(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bills SET status = ? WHERE id = ? AND status = ?`,
		billdomain.BillStatusCancelled,
		id,
		billdomain.BillStatusGenerated,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) MarkOverdue(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bills SET status = ? WHERE status = ? AND due_at < ?`,
		billdomain.BillStatusOverdue,
		billdomain.BillStatusGenerated,
		cutoff,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) ListOutstanding(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]billdomain.Bill, error) {
	var bills []billdomain.Bill
	query := `SELECT ` + billColumns + ` FROM bills WHERE status IN (?, ?)`
	args := []any{billdomain.BillStatusGenerated, billdomain.BillStatusOverdue}
	if tenantID != 0 {
		query += ` AND tenant_id = ?`
		args = append(args, tenantID)
	}
	query += ` ORDER BY due_at ASC, id ASC`

	err := db.WithContext(ctx).Raw(query, args...).Scan(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) ListByTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]billdomain.Bill, error) {
	var bills []billdomain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT `+billColumns+` FROM bills WHERE tenant_id = ?
		 ORDER BY generated_at DESC, id DESC`,
		tenantID,
	).Scan(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}
