package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	billdomain "github.com/aquabill-labs/aquabill/internal/bill/domain"
	billrepo "github.com/aquabill-labs/aquabill/internal/bill/repository"
	billservice "github.com/aquabill-labs/aquabill/internal/bill/service"
	"github.com/aquabill-labs/aquabill/internal/clock"
	"github.com/aquabill-labs/aquabill/internal/migration"
	readingdomain "github.com/aquabill-labs/aquabill/internal/reading/domain"
	readingrepo "github.com/aquabill-labs/aquabill/internal/reading/repository"
	readingservice "github.com/aquabill-labs/aquabill/internal/reading/service"
	reportdomain "github.com/aquabill-labs/aquabill/internal/report/domain"
	reportrepo "github.com/aquabill-labs/aquabill/internal/report/repository"
	reportservice "github.com/aquabill-labs/aquabill/internal/report/service"
	settingsrepo "github.com/aquabill-labs/aquabill/internal/settings/repository"
	settingsservice "github.com/aquabill-labs/aquabill/internal/settings/service"
	tenantdomain "github.com/aquabill-labs/aquabill/internal/tenant/domain"
	tenantrepo "github.com/aquabill-labs/aquabill/internal/tenant/repository"
	tenantservice "github.com/aquabill-labs/aquabill/internal/tenant/service"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	tenants  tenantdomain.Service
	readings readingdomain.Service
	bills    billdomain.Service
	reports  reportdomain.Service
}

var baseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.Run(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	logger := zap.NewNop()
	clk := &clock.Fixed{At: baseTime}

	tenantRepo := tenantrepo.Provide()
	readingRepo := readingrepo.Provide()

	tenantSvc := tenantservice.NewService(tenantservice.ServiceParam{
		DB: db, Log: logger, GenID: node, Clock: clk, Repo: tenantRepo,
	})
	settingsSvc := settingsservice.NewService(settingsservice.ServiceParam{
		DB: db, Log: logger, GenID: node, Clock: clk, Repo: settingsrepo.Provide(),
	})
	readingSvc := readingservice.NewService(readingservice.ServiceParam{
		DB: db, Log: logger, GenID: node, Clock: clk,
		Repo: readingRepo, TenantSvc: tenantSvc,
	})
	billSvc := billservice.NewService(billservice.ServiceParam{
		DB: db, Log: logger, GenID: node, Clock: clk,
		Repo: billrepo.Provide(), ReadingRepo: readingRepo,
		TenantSvc: tenantSvc, SettingsSvc: settingsSvc,
	})
	reportSvc := reportservice.NewService(reportservice.ServiceParam{
		DB: db, Log: logger,
		Repo: reportrepo.Provide(), TenantRepo: tenantRepo, ReadingRepo: readingRepo,
	})

	return &fixture{
		tenants:  tenantSvc,
		readings: readingSvc,
		bills:    billSvc,
		reports:  reportSvc,
	}
}

func (f *fixture) addTenant(t *testing.T, code, apartment string) {
	t.Helper()
	_, err := f.tenants.Create(context.Background(), tenantdomain.CreateTenantRequest{
		Code:      code,
		Name:      "Tenant " + code,
		Apartment: apartment,
	})
	require.NoError(t, err)
}

func (f *fixture) addReading(t *testing.T, code string, value float64, at time.Time) {
	t.Helper()
	_, err := f.readings.Add(context.Background(), readingdomain.AddReadingRequest{
		TenantCode: code,
		Value:      value,
		ReadAt:     at,
	})
	require.NoError(t, err)
}

func TestTenantSummaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T001", "A101")
	f.addTenant(t, "T002", "B205")

	f.addReading(t, "T001", 1000.0, baseTime)
	f.addReading(t, "T001", 1100.0, baseTime.AddDate(0, 0, 30))
	f.addReading(t, "T001", 1250.0, baseTime.AddDate(0, 0, 60))

	first, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T001",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
	_, err = f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T001",
		PeriodStart: baseTime.AddDate(0, 0, 30),
		PeriodEnd:   baseTime.AddDate(0, 0, 60),
	})
	require.NoError(t, err)
	_, err = f.bills.MarkPaid(ctx, first.ID)
	require.NoError(t, err)

	summaries, err := f.reports.TenantSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Ordered by apartment; T002 appears with zeroed aggregates.
	busy := summaries[0]
	assert.Equal(t, "T001", busy.TenantCode)
	assert.EqualValues(t, 3, busy.TotalReadings)
	require.NotNil(t, busy.LastReadingAt)
	assert.EqualValues(t, 2, busy.TotalBills)
	assert.EqualValues(t, 1, busy.BillsPaid)
	assert.EqualValues(t, 1, busy.BillsOutstanding)
	assert.Equal(t, 250.00, busy.TotalPaid)         // 100 units at 2.50
	assert.Equal(t, 375.00, busy.OutstandingAmount) // 150 units at 2.50

	idle := summaries[1]
	assert.Equal(t, "T002", idle.TenantCode)
	assert.EqualValues(t, 0, idle.TotalReadings)
	assert.Nil(t, idle.LastReadingAt)
	assert.EqualValues(t, 0, idle.TotalBills)
	assert.Equal(t, 0.0, idle.OutstandingAmount)
}

func TestTenantSummariesExcludeCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T001", "A101")
	f.addReading(t, "T001", 100.0, baseTime)
	f.addReading(t, "T001", 160.0, baseTime.AddDate(0, 0, 30))

	bill, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T001",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
	_, err = f.bills.Cancel(ctx, bill.ID)
	require.NoError(t, err)

	summaries, err := f.reports.TenantSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	// A cancelled bill counts toward the total but never toward paid or
	// outstanding money.
	assert.EqualValues(t, 1, summaries[0].TotalBills)
	assert.EqualValues(t, 0, summaries[0].BillsPaid)
	assert.EqualValues(t, 0, summaries[0].BillsOutstanding)
	assert.Equal(t, 0.0, summaries[0].TotalPaid)
	assert.Equal(t, 0.0, summaries[0].OutstandingAmount)
}

func TestMonthlyConsumptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T001", "A101")
	f.addTenant(t, "T002", "B205")

	// January: two readings for both tenants.
	f.addReading(t, "T001", 1000.0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	f.addReading(t, "T001", 1080.0, time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC))
	f.addReading(t, "T002", 500.0, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	f.addReading(t, "T002", 540.0, time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC))

	// February: T001 has three readings, T002 only one.
	f.addReading(t, "T001", 1100.0, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	f.addReading(t, "T001", 1140.0, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC))
	f.addReading(t, "T001", 1190.0, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC))
	f.addReading(t, "T002", 560.0, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	rows, err := f.reports.MonthlyConsumptions(ctx, "")
	require.NoError(t, err)

	// T002's single February reading defines no consumption, so three rows:
	// newest month first, apartments ascending within a month.
	require.Len(t, rows, 3)

	assert.Equal(t, "2026-02", rows[0].Month)
	assert.Equal(t, "T001", rows[0].TenantCode)
	assert.Equal(t, 3, rows[0].ReadingsCount)
	assert.Equal(t, 1100.0, rows[0].StartValue)
	assert.Equal(t, 1190.0, rows[0].EndValue)
	assert.Equal(t, 90.0, rows[0].Consumption)

	assert.Equal(t, "2026-01", rows[1].Month)
	assert.Equal(t, "T001", rows[1].TenantCode)
	assert.Equal(t, 80.0, rows[1].Consumption)

	assert.Equal(t, "2026-01", rows[2].Month)
	assert.Equal(t, "T002", rows[2].TenantCode)
	assert.Equal(t, 40.0, rows[2].Consumption)
}

func TestMonthlyConsumptionsFiltered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T001", "A101")
	f.addTenant(t, "T002", "B205")
	f.addReading(t, "T001", 100.0, baseTime)
	f.addReading(t, "T001", 140.0, baseTime.AddDate(0, 0, 20))
	f.addReading(t, "T002", 200.0, baseTime)
	f.addReading(t, "T002", 230.0, baseTime.AddDate(0, 0, 20))

	rows, err := f.reports.MonthlyConsumptions(ctx, "T002")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "T002", rows[0].TenantCode)
	assert.Equal(t, 30.0, rows[0].Consumption)
}

func TestMonthlyConsumptionsUnknownTenant(t *testing.T) {
	f := newFixture(t)
	_, err := f.reports.MonthlyConsumptions(context.Background(), "NOPE")
	assert.ErrorIs(t, err, tenantdomain.ErrTenantNotFound)
}
