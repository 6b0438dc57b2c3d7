package service

import (
	"context"
	"sort"

	readingdomain "github.com/aquabill-labs/aquabill/internal/reading/domain"
	reportdomain "github.com/aquabill-labs/aquabill/internal/report/domain"
	reportrepo "github.com/aquabill-labs/aquabill/internal/report/repository"
	tenantdomain "github.com/aquabill-labs/aquabill/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	repo        reportrepo.Repository
	tenantRepo  tenantdomain.Repository
	readingRepo readingdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Repo        reportrepo.Repository
	TenantRepo  tenantdomain.Repository
	ReadingRepo readingdomain.Repository
}

func NewService(p ServiceParam) reportdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("report.service"),

		repo:        p.Repo,
		tenantRepo:  p.TenantRepo,
		readingRepo: p.ReadingRepo,
	}
}

func (s *Service) TenantSummaries(ctx context.Context) ([]reportdomain.TenantSummary, error) {
	tenants, err := s.tenantRepo.ListActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	readingAggs, err := s.repo.ReadingAggregates(ctx, s.db)
	if err != nil {
		return nil, err
	}
	billAggs, err := s.repo.BillAggregates(ctx, s.db)
	if err != nil {
		return nil, err
	}

	// Tenants with no activity still appear, with zeroed aggregates.
	summaries := make([]reportdomain.TenantSummary, 0, len(tenants))
	for _, tenant := range tenants {
		summary := reportdomain.TenantSummary{
			TenantCode: tenant.Code,
			Name:       tenant.Name,
			Apartment:  tenant.Apartment,
		}
		if agg, ok := readingAggs[tenant.ID]; ok {
			summary.TotalReadings = agg.TotalReadings
			summary.LastReadingAt = agg.LastReadAt
		}
		if agg, ok := billAggs[tenant.ID]; ok {
			summary.TotalBills = agg.TotalBills
			summary.BillsPaid = agg.BillsPaid
			summary.BillsOutstanding = agg.BillsOutstanding
			summary.TotalPaid = agg.TotalPaid
			summary.OutstandingAmount = agg.OutstandingAmount
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *Service) MonthlyConsumptions(ctx context.Context, tenantCode string) ([]reportdomain.MonthlyConsumption, error) {
	tenants, err := s.tenantRepo.ListActive(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if tenantCode != "" {
		filtered := tenants[:0]
		for _, tenant := range tenants {
			if tenant.Code == tenantCode {
				filtered = append(filtered, tenant)
			}
		}
		tenants = filtered
		if len(tenants) == 0 {
			return nil, tenantdomain.ErrTenantNotFound
		}
	}

	var rows []reportdomain.MonthlyConsumption
	for _, tenant := range tenants {
		readings, err := s.readingRepo.ListAsc(ctx, s.db, tenant.ID)
		if err != nil {
			return nil, err
		}

		months := groupByMonth(readings)
		for month, group := range months {
			// A single point defines no consumption.
			if len(group) < 2 {
				continue
			}
			first := group[0]
			last := group[len(group)-1]
			rows = append(rows, reportdomain.MonthlyConsumption{
				Month:         month,
				TenantCode:    tenant.Code,
				Apartment:     tenant.Apartment,
				ReadingsCount: len(group),
				StartValue:    first.Value,
				EndValue:      last.Value,
				Consumption:   last.Value - first.Value,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month > rows[j].Month
		}
		return rows[i].Apartment < rows[j].Apartment
	})
	return rows, nil
}

// groupByMonth buckets readings by the calendar month of ReadAt. Input is
// already ascending by ReadAt, so each bucket stays ordered.
func groupByMonth(readings []readingdomain.Reading) map[string][]readingdomain.Reading {
	months := make(map[string][]readingdomain.Reading)
	for _, reading := range readings {
		key := reading.ReadAt.UTC().Format("2006-01")
		months[key] = append(months[key], reading)
	}
	return months
}
