package repository

import (
	"context"
	"time"

	billdomain "github.com/aquabill-labs/aquabill/internal/bill/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ReadingAggregate struct {
	TenantID      snowflake.ID
	TotalReadings int64
	LastReadAt    *time.Time
}

type BillAggregate struct {
	TenantID          snowflake.ID
	TotalBills        int64
	BillsPaid         int64
	BillsOutstanding  int64
	TotalPaid         float64
	OutstandingAmount float64
}

type Repository interface {
	ReadingAggregates(ctx context.Context, db *gorm.DB) (map[snowflake.ID]ReadingAggregate, error)
	BillAggregates(ctx context.Context, db *gorm.DB) (map[snowflake.ID]BillAggregate, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) ReadingAggregates(ctx context.Context, db *gorm.DB) (map[snowflake.ID]ReadingAggregate, error) {
	var rows []ReadingAggregate
	err := db.WithContext(ctx).Raw(
		`SELECT tenant_id,
		        COUNT(*)    AS total_readings,
		        MAX(read_at) AS last_read_at
		 FROM readings
		 GROUP BY tenant_id`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[snowflake.ID]ReadingAggregate, len(rows))
	for _, row := range rows {
		out[row.TenantID] = row
	}
	return out, nil
}

func (r *repo) BillAggregates(ctx context.Context, db *gorm.DB) (map[snowflake.ID]BillAggregate, error) {
	var rows []BillAggregate
	err := db.WithContext(ctx).Raw(
		`SELECT tenant_id,
		        COUNT(*) AS total_bills,
		        SUM(CASE WHEN status = ? THEN 1 ELSE 0 END)           AS bills_paid,
		        SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END)     AS bills_outstanding,
		        SUM(CASE WHEN status = ? THEN amount ELSE 0 END)      AS total_paid,
		        SUM(CASE WHEN status IN (?, ?) THEN amount ELSE 0 END) AS outstanding_amount
		 FROM bills
		 GROUP BY tenant_id`,
		billdomain.BillStatusPaid,
		billdomain.BillStatusGenerated,
		billdomain.BillStatusOverdue,
		billdomain.BillStatusPaid,
		billdomain.BillStatusGenerated,
		billdomain.BillStatusOverdue,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[snowflake.ID]BillAggregate, len(rows))
	for _, row := range rows {
		out[row.TenantID] = row
	}
	return out, nil
}
