// Package domain defines the read-side summary shapes. Reports are computed
// on demand from the ledgers; nothing here is persisted.
package domain

import (
	"context"
	"time"
)

type TenantSummary struct {
	TenantCode    string     `json:"tenant_code"`
	Name          string     `json:"name"`
	Apartment     string     `json:"apartment"`
	TotalReadings int64      `json:"total_readings"`
	LastReadingAt *time.Time `json:"last_reading_at,omitempty"`

	TotalBills        int64   `json:"total_bills"`
	BillsPaid         int64   `json:"bills_paid"`
	BillsOutstanding  int64   `json:"bills_outstanding"`
	TotalPaid         float64 `json:"total_paid"`
	OutstandingAmount float64 `json:"outstanding_amount"`
}

type MonthlyConsumption struct {
	// Month in "2006-01" form, from the reading timestamp's calendar month.
	Month         string  `json:"month"`
	TenantCode    string  `json:"tenant_code"`
	Apartment     string  `json:"apartment"`
	ReadingsCount int     `json:"readings_count"`
	StartValue    float64 `json:"start_value"`
	EndValue      float64 `json:"end_value"`
	Consumption   float64 `json:"consumption"`
}

type Service interface {
	// TenantSummaries covers every active tenant, including those with no
	// readings or bills (zeroed aggregates), ordered by apartment.
	TenantSummaries(ctx context.Context) ([]TenantSummary, error)

	// MonthlyConsumptions groups readings by calendar month. Months with
	// fewer than two readings are excluded: consumption is undefined from a
	// single point. Ordered by month descending, then apartment ascending.
	// tenantCode "" means all active tenants.
	MonthlyConsumptions(ctx context.Context, tenantCode string) ([]MonthlyConsumption, error)
}
