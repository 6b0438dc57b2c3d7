package service

import (
	"context"
	"time"

	"github.com/aquabill-labs/aquabill/internal/clock"
	"github.com/aquabill-labs/aquabill/internal/observability"
	readingdomain "github.com/aquabill-labs/aquabill/internal/reading/domain"
	tenantdomain "github.com/aquabill-labs/aquabill/internal/tenant/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID     *snowflake.Node
	clock     clock.Clock
	repo      readingdomain.Repository
	tenantSvc tenantdomain.Service
}

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      readingdomain.Repository
	TenantSvc tenantdomain.Service
}

func NewService(p ServiceParam) readingdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("reading.service"),

		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		tenantSvc: p.TenantSvc,
	}
}

// Add appends a reading as observed. There is deliberately no monotonicity
// check: a replaced or reset meter legitimately decreases, and the billing
// calculator is where a decrease becomes an error.
func (s *Service) Add(ctx context.Context, req readingdomain.AddReadingRequest) (*readingdomain.Reading, error) {
	tenant, err := s.tenantSvc.ResolveActive(ctx, req.TenantCode)
	if err != nil {
		return nil, err
	}

	reading := &readingdomain.Reading{
		ID:         s.genID.Generate(),
		TenantID:   tenant.ID,
		Value:      req.Value,
		ReadAt:     req.ReadAt.UTC(),
		RecordedAt: s.clock.Now(ctx),
		Note:       req.Note,
		RecordedBy: req.RecordedBy,
	}

	if err := s.repo.Insert(ctx, s.db, reading); err != nil {
		return nil, err
	}

	observability.ReadingsRecorded.Inc()
	s.log.Info("reading recorded",
		zap.String("tenant", tenant.Code),
		zap.Float64("value", reading.Value),
		zap.Time("read_at", reading.ReadAt),
	)
	return reading, nil
}

func (s *Service) Latest(ctx context.Context, tenantCode string) (*readingdomain.Reading, error) {
	tenant, err := s.tenantSvc.Get(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	return s.repo.Latest(ctx, s.db, tenant.ID)
}

func (s *Service) AtOrBefore(ctx context.Context, tenantCode string, at time.Time) (*readingdomain.Reading, error) {
	tenant, err := s.tenantSvc.Get(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	return s.repo.AtOrBefore(ctx, s.db, tenant.ID, at.UTC())
}

func (s *Service) InRange(ctx context.Context, tenantCode string, start, end time.Time) ([]readingdomain.Reading, error) {
	tenant, err := s.tenantSvc.Get(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	return s.repo.InRange(ctx, s.db, tenant.ID, start.UTC(), end.UTC())
}

func (s *Service) List(ctx context.Context, tenantCode string) ([]readingdomain.Reading, error) {
	tenant, err := s.tenantSvc.Get(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAsc(ctx, s.db, tenant.ID)
}
