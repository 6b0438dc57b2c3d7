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
	settingsdomain "github.com/aquabill-labs/aquabill/internal/settings/domain"
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
	db       *gorm.DB
	clock    *clock.Fixed
	tenants  tenantdomain.Service
	settings settingsdomain.Service
	readings readingdomain.Service
	bills    billdomain.Service
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

	tenantSvc := tenantservice.NewService(tenantservice.ServiceParam{
		DB:    db,
		Log:   logger,
		GenID: node,
		Clock: clk,
		Repo:  tenantrepo.Provide(),
	})
	settingsSvc := settingsservice.NewService(settingsservice.ServiceParam{
		DB:    db,
		Log:   logger,
		GenID: node,
		Clock: clk,
		Repo:  settingsrepo.Provide(),
	})
	readingRepo := readingrepo.Provide()
	readingSvc := readingservice.NewService(readingservice.ServiceParam{
		DB:        db,
		Log:       logger,
		GenID:     node,
		Clock:     clk,
		Repo:      readingRepo,
		TenantSvc: tenantSvc,
	})
	billSvc := billservice.NewService(billservice.ServiceParam{
		DB:          db,
		Log:         logger,
		GenID:       node,
		Clock:       clk,
		Repo:        billrepo.Provide(),
		ReadingRepo: readingRepo,
		TenantSvc:   tenantSvc,
		SettingsSvc: settingsSvc,
	})

	return &fixture{
		db:       db,
		clock:    clk,
		tenants:  tenantSvc,
		settings: settingsSvc,
		readings: readingSvc,
		bills:    billSvc,
	}
}

func (f *fixture) addTenant(t *testing.T, code string) *tenantdomain.Tenant {
	t.Helper()
	tenant, err := f.tenants.Create(context.Background(), tenantdomain.CreateTenantRequest{
		Code:      code,
		Name:      "Tenant " + code,
		Apartment: "A-" + code,
	})
	require.NoError(t, err)
	return tenant
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

func TestGenerateBill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T004")
	f.addReading(t, "T004", 1000.0, baseTime)
	f.addReading(t, "T004", 1250.0, baseTime.AddDate(0, 0, 30))

	_, err := f.settings.Set(ctx, settingsdomain.KeyRatePerUnit, "2.50", nil)
	require.NoError(t, err)

	bill, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T004",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	require.NoError(t, err)

	assert.Equal(t, 250.0, bill.UnitsConsumed)
	assert.Equal(t, 625.00, bill.Amount)
	assert.Equal(t, 2.50, bill.RatePerUnit)
	assert.Equal(t, "USD", bill.Currency)
	assert.Equal(t, billdomain.BillStatusGenerated, bill.Status)
	require.NotNil(t, bill.StartReadingID)
	require.NotNil(t, bill.EndReadingID)
}

func TestGenerateBillSnapshotsRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T001")
	f.addReading(t, "T001", 100.0, baseTime)
	f.addReading(t, "T001", 200.0, baseTime.AddDate(0, 0, 30))

	_, err := f.settings.Set(ctx, settingsdomain.KeyRatePerUnit, "1.00", nil)
	require.NoError(t, err)

	bill, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T001",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, 100.00, bill.Amount)

	// A later rate change must not touch the stored bill.
	_, err = f.settings.Set(ctx, settingsdomain.KeyRatePerUnit, "9.99", nil)
	require.NoError(t, err)

	stored, err := f.bills.Get(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.00, stored.RatePerUnit)
	assert.Equal(t, 100.00, stored.Amount)
}

func TestGenerateBillInsufficientData(t *testing.T) {
	f := newFixture(t)
	f.addTenant(t, "T002")

	_, err := f.bills.Generate(context.Background(), billdomain.GenerateBillRequest{
		TenantCode:  "T002",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	assert.ErrorIs(t, err, billdomain.ErrInsufficientData)
}

func TestGenerateBillNewTenantBaseline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No reading precedes the period: the earliest in-period reading serves
	// as both bounds and the first bill is zero.
	f.addTenant(t, "T003")
	f.addReading(t, "T003", 500.0, baseTime.AddDate(0, 0, 10))
	f.addReading(t, "T003", 620.0, baseTime.AddDate(0, 0, 25))

	bill, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T003",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, bill.UnitsConsumed)
	assert.Equal(t, 0.0, bill.Amount)
	require.NotNil(t, bill.StartReadingID)
	require.NotNil(t, bill.EndReadingID)
	assert.Equal(t, *bill.StartReadingID, *bill.EndReadingID)
}

func TestGenerateBillNegativeConsumption(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T005")
	f.addReading(t, "T005", 1250.0, baseTime)
	f.addReading(t, "T005", 900.0, baseTime.AddDate(0, 0, 30))

	_, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T005",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	assert.ErrorIs(t, err, billdomain.ErrNegativeConsumption)

	// The failed generation must leave no partial state.
	bills, err := f.bills.ListByTenant(ctx, "T005")
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestGenerateBillOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T004")
	f.addReading(t, "T004", 1000.0, baseTime)
	f.addReading(t, "T004", 1250.0, baseTime.AddDate(0, 0, 30))

	_, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T004",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	require.NoError(t, err)

	// [day15, day45) overlaps [day0, day30).
	_, err = f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T004",
		PeriodStart: baseTime.AddDate(0, 0, 15),
		PeriodEnd:   baseTime.AddDate(0, 0, 45),
	})
	assert.ErrorIs(t, err, billdomain.ErrOverlappingPeriod)

	bills, err := f.bills.ListByTenant(ctx, "T004")
	require.NoError(t, err)
	assert.Len(t, bills, 1)
}

func TestGenerateBillAdjacentPeriods(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T006")
	f.addReading(t, "T006", 100.0, baseTime)
	f.addReading(t, "T006", 150.0, baseTime.AddDate(0, 0, 30))
	f.addReading(t, "T006", 210.0, baseTime.AddDate(0, 0, 60))

	_, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T006",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	require.NoError(t, err)

	// Half-open periods: [day0, day30) and [day30, day60) share no date.
	second, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T006",
		PeriodStart: baseTime.AddDate(0, 0, 30),
		PeriodEnd:   baseTime.AddDate(0, 0, 60),
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, second.UnitsConsumed)
}

func TestGenerateBillCancelledDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T007")
	f.addReading(t, "T007", 100.0, baseTime)
	f.addReading(t, "T007", 160.0, baseTime.AddDate(0, 0, 30))

	first, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T007",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	require.NoError(t, err)

	_, err = f.bills.Cancel(ctx, first.ID)
	require.NoError(t, err)

	// A cancelled bill no longer occupies its period.
	_, err = f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T007",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
}

func TestGenerateBillInactiveTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T008")
	_, err := f.tenants.Deactivate(ctx, "T008")
	require.NoError(t, err)

	_, err = f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T008",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	assert.ErrorIs(t, err, tenantdomain.ErrTenantInactive)
}

func TestMarkPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T004")
	f.addReading(t, "T004", 1000.0, baseTime)
	f.addReading(t, "T004", 1250.0, baseTime.AddDate(0, 0, 30))

	bill, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T004",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	require.NoError(t, err)

	f.clock.At = baseTime.AddDate(0, 0, 31)
	paid, err := f.bills.MarkPaid(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, billdomain.BillStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, baseTime.AddDate(0, 0, 31), paid.PaidAt.UTC())

	// Chosen policy: a second call is an error, never a re-applied
	// timestamp.
	_, err = f.bills.MarkPaid(ctx, bill.ID)
	assert.ErrorIs(t, err, billdomain.ErrAlreadyPaid)

	stored, err := f.bills.Get(ctx, bill.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PaidAt)
	assert.Equal(t, baseTime.AddDate(0, 0, 31), stored.PaidAt.UTC())
}

func TestMarkPaidUnknownBill(t *testing.T) {
	f := newFixture(t)
	_, err := f.bills.MarkPaid(context.Background(), snowflake.ID(12345))
	assert.ErrorIs(t, err, billdomain.ErrBillNotFound)
}

func TestCancelTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T009")
	f.addReading(t, "T009", 10.0, baseTime)
	f.addReading(t, "T009", 20.0, baseTime.AddDate(0, 0, 30))

	bill, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T009",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
	})
	require.NoError(t, err)

	cancelled, err := f.bills.Cancel(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, billdomain.BillStatusCancelled, cancelled.Status)

	// No transition leaves cancelled.
	_, err = f.bills.MarkPaid(ctx, bill.ID)
	assert.ErrorIs(t, err, billdomain.ErrBillClosed)
	_, err = f.bills.Cancel(ctx, bill.ID)
	assert.ErrorIs(t, err, billdomain.ErrBillClosed)
}

func TestMarkOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T004")
	f.addReading(t, "T004", 1000.0, baseTime)
	f.addReading(t, "T004", 1250.0, baseTime.AddDate(0, 0, 30))

	bill, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T004",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
		DueDays:     15,
	})
	require.NoError(t, err)
	dueAt := bill.DueAt

	// asOf equal to the due date: not strictly past due yet.
	changed, err := f.bills.MarkOverdue(ctx, dueAt)
	require.NoError(t, err)
	assert.EqualValues(t, 0, changed)

	changed, err = f.bills.MarkOverdue(ctx, dueAt.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)

	stored, err := f.bills.Get(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, billdomain.BillStatusOverdue, stored.Status)

	// Overdue bills can still be paid; paid bills are untouched by later
	// sweeps.
	_, err = f.bills.MarkPaid(ctx, bill.ID)
	require.NoError(t, err)
	changed, err = f.bills.MarkOverdue(ctx, dueAt.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 0, changed)
}

func TestListOutstanding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTenant(t, "T010")
	f.addReading(t, "T010", 10.0, baseTime)
	f.addReading(t, "T010", 20.0, baseTime.AddDate(0, 0, 30))
	f.addReading(t, "T010", 35.0, baseTime.AddDate(0, 0, 60))

	later, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T010",
		PeriodStart: baseTime.AddDate(0, 0, 30),
		PeriodEnd:   baseTime.AddDate(0, 0, 60),
		DueDays:     30,
	})
	require.NoError(t, err)
	earlier, err := f.bills.Generate(ctx, billdomain.GenerateBillRequest{
		TenantCode:  "T010",
		PeriodStart: baseTime,
		PeriodEnd:   baseTime.AddDate(0, 0, 30),
		DueDays:     10,
	})
	require.NoError(t, err)

	outstanding, err := f.bills.ListOutstanding(ctx, "T010")
	require.NoError(t, err)
	require.Len(t, outstanding, 2)

	// Ordered by due date ascending.
	assert.Equal(t, earlier.ID, outstanding[0].ID)
	assert.Equal(t, later.ID, outstanding[1].ID)

	_, err = f.bills.MarkPaid(ctx, earlier.ID)
	require.NoError(t, err)

	outstanding, err = f.bills.ListOutstanding(ctx, "T010")
	require.NoError(t, err)
	require.Len(t, outstanding, 1)
	assert.Equal(t, later.ID, outstanding[0].ID)
}
