package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aquabill-labs/aquabill/internal/clock"
	tenantdomain "github.com/aquabill-labs/aquabill/internal/tenant/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  tenantdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  tenantdomain.Repository
}

func NewService(p ServiceParam) tenantdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("tenant.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req tenantdomain.CreateTenantRequest) (*tenantdomain.Tenant, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("tenant code is required")
	}

	existing, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, tenantdomain.ErrCodeAlreadyUsed
	}

	now := s.clock.Now(ctx)
	tenant := &tenantdomain.Tenant{
		ID:        s.genID.Generate(),
		Code:      code,
		Name:      strings.TrimSpace(req.Name),
		Apartment: strings.TrimSpace(req.Apartment),
		Phone:     req.Phone,
		Email:     req.Email,
		Status:    tenantdomain.TenantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, tenant); err != nil {
		return nil, err
	}

	s.log.Info("tenant created",
		zap.String("code", tenant.Code),
		zap.String("apartment", tenant.Apartment),
	)
	return tenant, nil
}

func (s *Service) Update(ctx context.Context, code string, req tenantdomain.UpdateTenantRequest) (*tenantdomain.Tenant, error) {
	tenant, err := s.repo.FindByCode(ctx, s.db, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, tenantdomain.ErrTenantNotFound
	}

	if req.Name != nil {
		tenant.Name = strings.TrimSpace(*req.Name)
	}
	if req.Apartment != nil {
		tenant.Apartment = strings.TrimSpace(*req.Apartment)
	}
	if req.Phone != nil {
		tenant.Phone = req.Phone
	}
	if req.Email != nil {
		tenant.Email = req.Email
	}
	tenant.UpdatedAt = s.clock.Now(ctx)

	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// Deactivate is the only removal operation. Readings and bills keep their
// tenant reference, so the row stays in place with an inactive status.
func (s *Service) Deactivate(ctx context.Context, code string) (*tenantdomain.Tenant, error) {
	tenant, err := s.repo.FindByCode(ctx, s.db, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, tenantdomain.ErrTenantNotFound
	}

	if tenant.Status == tenantdomain.TenantStatusInactive {
		return tenant, nil
	}

	tenant.Status = tenantdomain.TenantStatusInactive
	tenant.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return nil, err
	}

	s.log.Info("tenant deactivated", zap.String("code", tenant.Code))
	return tenant, nil
}

func (s *Service) Get(ctx context.Context, code string) (*tenantdomain.Tenant, error) {
	tenant, err := s.repo.FindByCode(ctx, s.db, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, tenantdomain.ErrTenantNotFound
	}
	return tenant, nil
}

func (s *Service) ListActive(ctx context.Context) ([]tenantdomain.Tenant, error) {
	return s.repo.ListActive(ctx, s.db)
}

func (s *Service) ResolveActive(ctx context.Context, code string) (*tenantdomain.Tenant, error) {
	tenant, err := s.repo.FindByCode(ctx, s.db, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, tenantdomain.ErrTenantNotFound
	}
	if !tenant.Active() {
		return nil, tenantdomain.ErrTenantInactive
	}
	return tenant, nil
}
