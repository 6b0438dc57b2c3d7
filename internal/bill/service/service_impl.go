package service

import (
	"context"
	"fmt"
	"time"

	billdomain "github.com/aquabill-labs/aquabill/internal/bill/domain"
	"github.com/aquabill-labs/aquabill/internal/clock"
	"github.com/aquabill-labs/aquabill/internal/observability"
	readingdomain "github.com/aquabill-labs/aquabill/internal/reading/domain"
	settingsdomain "github.com/aquabill-labs/aquabill/internal/settings/domain"
	tenantdomain "github.com/aquabill-labs/aquabill/internal/tenant/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID       *snowflake.Node
	clock       clock.Clock
	repo        billdomain.Repository
	readingRepo readingdomain.Repository
	tenantSvc   tenantdomain.Service
	settingsSvc settingsdomain.Service
}

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        billdomain.Repository
	ReadingRepo readingdomain.Repository
	TenantSvc   tenantdomain.Service
	SettingsSvc settingsdomain.Service
}

func NewService(p ServiceParam) billdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("bill.service"),

		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		readingRepo: p.ReadingRepo,
		tenantSvc:   p.TenantSvc,
		settingsSvc: p.SettingsSvc,
	}
}

// Generate resolves the period's bounding readings, runs the calculator and
// persists the draft. The overlap check and insert share one transaction;
// an error leaves no partial state behind.
func (s *Service) Generate(ctx context.Context, req billdomain.GenerateBillRequest) (*billdomain.Bill, error) {
	tenant, err := s.tenantSvc.ResolveActive(ctx, req.TenantCode)
	if err != nil {
		return nil, err
	}

	// Settings are read once, before the transaction, and snapshotted onto
	// the bill. They are not re-read mid-operation.
	snap, err := s.settingsSvc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	periodStart := req.PeriodStart.UTC()
	periodEnd := req.PeriodEnd.UTC()
	if !periodEnd.After(periodStart) {
		return nil, billdomain.ErrInvalidPeriod
	}

	dueDays := snap.DueDays
	if req.DueDays > 0 {
		dueDays = req.DueDays
	}

	var bill *billdomain.Bill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overlapping, err := s.repo.CountOverlapping(ctx, tx, tenant.ID, periodStart, periodEnd)
		if err != nil {
			return fmt.Errorf("overlap check: %w", err)
		}
		if overlapping > 0 {
			return billdomain.ErrOverlappingPeriod
		}

		start, end, err := s.resolveBounds(ctx, tx, tenant.ID, periodStart, periodEnd)
		if err != nil {
			return err
		}

		draft, err := billdomain.Compute(tenant.ID, periodStart, periodEnd, snap, start, end)
		if err != nil {
			return err
		}

		now := s.clock.Now(ctx)
		bill = &billdomain.Bill{
			ID:             s.genID.Generate(),
			TenantID:       draft.TenantID,
			PeriodStart:    draft.PeriodStart,
			PeriodEnd:      draft.PeriodEnd,
			StartReadingID: draft.StartReadingID,
			EndReadingID:   draft.EndReadingID,
			UnitsConsumed:  draft.UnitsConsumed,
			RatePerUnit:    draft.RatePerUnit,
			Amount:         draft.Amount,
			Currency:       draft.Currency,
			Status:         billdomain.BillStatusGenerated,
			GeneratedAt:    now,
			DueAt:          now.AddDate(0, 0, dueDays),
		}
		return s.repo.Insert(ctx, tx, bill)
	})
	if err != nil {
		return nil, err
	}

	observability.BillsGenerated.Inc()
	s.log.Info("bill generated",
		zap.String("tenant", tenant.Code),
		zap.Float64("units", bill.UnitsConsumed),
		zap.Float64("amount", bill.Amount),
		zap.String("currency", bill.Currency),
	)
	return bill, nil
}

// resolveBounds picks the readings bounding the period. The start bound is
// the reading at or before periodStart. A tenant enrolled mid-period has no
// prior baseline; rather than failing, the earliest reading at or after
// periodStart serves as both bounds, producing a zero-consumption first
// bill. The end bound is the latest reading at or before periodEnd.
func (s *Service) resolveBounds(
	ctx context.Context,
	tx *gorm.DB,
	tenantID snowflake.ID,
	periodStart, periodEnd time.Time,
) (*readingdomain.Reading, *readingdomain.Reading, error) {
	start, err := s.readingRepo.AtOrBefore(ctx, tx, tenantID, periodStart)
	if err != nil {
		return nil, nil, err
	}
	if start == nil {
		baseline, err := s.readingRepo.EarliestAtOrAfter(ctx, tx, tenantID, periodStart)
		if err != nil {
			return nil, nil, err
		}
		if baseline == nil || baseline.ReadAt.After(periodEnd) {
			return nil, nil, billdomain.ErrInsufficientData
		}
		return baseline, baseline, nil
	}

	end, err := s.readingRepo.AtOrBefore(ctx, tx, tenantID, periodEnd)
	if err != nil {
		return nil, nil, err
	}
	if end == nil {
		return nil, nil, billdomain.ErrInsufficientData
	}
	return start, end, nil
}

func (s *Service) MarkPaid(ctx context.Context, id snowflake.ID) (*billdomain.Bill, error) {
	bill, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billdomain.ErrBillNotFound
	}
	switch bill.Status {
	case billdomain.BillStatusPaid:
		return nil, billdomain.ErrAlreadyPaid
	case billdomain.BillStatusCancelled:
		return nil, billdomain.ErrBillClosed
	}

	paidAt := s.clock.Now(ctx)
	changed, err := s.repo.MarkPaid(ctx, s.db, id, paidAt)
	if err != nil {
		return nil, err
	}
	// A concurrent payer won the race between our read and the update.
	if changed == 0 {
		return nil, billdomain.ErrAlreadyPaid
	}

	bill.Status = billdomain.BillStatusPaid
	bill.PaidAt = &paidAt

	observability.BillsPaid.Inc()
	s.log.Info("bill paid",
		zap.Int64("bill_id", int64(bill.ID)),
		zap.Float64("amount", bill.Amount),
	)
	return bill, nil
}

func (s *Service) Cancel(ctx context.Context, id snowflake.ID) (*billdomain.Bill, error) {
	bill, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billdomain.ErrBillNotFound
	}
	if bill.Status != billdomain.BillStatusGenerated {
		return nil, billdomain.ErrBillClosed
	}

	changed, err := s.repo.MarkCancelled(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if changed == 0 {
		return nil, billdomain.ErrBillClosed
	}

	bill.Status = billdomain.BillStatusCancelled
	s.log.Info("bill cancelled", zap.Int64("bill_id", int64(bill.ID)))
	return bill, nil
}

// MarkOverdue transitions generated bills whose due date (plus the grace
// window) lies strictly before asOf. With grace_days at its default of 0 the
// cutoff is asOf itself.
func (s *Service) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	snap, err := s.settingsSvc.Snapshot(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := asOf.UTC().AddDate(0, 0, -snap.GraceDays)
	changed, err := s.repo.MarkOverdue(ctx, s.db, cutoff)
	if err != nil {
		return 0, err
	}

	if changed > 0 {
		observability.BillsOverdue.Add(float64(changed))
		s.log.Info("overdue sweep",
			zap.Int64("bills", changed),
			zap.Time("as_of", asOf),
		)
	}
	return changed, nil
}

func (s *Service) ListOutstanding(ctx context.Context, tenantCode string) ([]billdomain.Bill, error) {
	var tenantID snowflake.ID
	if tenantCode != "" {
		tenant, err := s.tenantSvc.Get(ctx, tenantCode)
		if err != nil {
			return nil, err
		}
		tenantID = tenant.ID
	}
	return s.repo.ListOutstanding(ctx, s.db, tenantID)
}

func (s *Service) ListByTenant(ctx context.Context, tenantCode string) ([]billdomain.Bill, error) {
	tenant, err := s.tenantSvc.Get(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByTenant(ctx, s.db, tenant.ID)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*billdomain.Bill, error) {
	bill, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billdomain.ErrBillNotFound
	}
	return bill, nil
}
