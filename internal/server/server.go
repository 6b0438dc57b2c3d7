package server

import (
	"context"
	"net/http"

	billdomain "github.com/aquabill-labs/aquabill/internal/bill/domain"
	"github.com/aquabill-labs/aquabill/internal/config"
	readingdomain "github.com/aquabill-labs/aquabill/internal/reading/domain"
	reportdomain "github.com/aquabill-labs/aquabill/internal/report/domain"
	settingsdomain "github.com/aquabill-labs/aquabill/internal/settings/domain"
	tenantdomain "github.com/aquabill-labs/aquabill/internal/tenant/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	log *zap.Logger
	db  *gorm.DB

	tenantsvc  tenantdomain.Service
	readingsvc readingdomain.Service
	billsvc    billdomain.Service
	settingsvc settingsdomain.Service
	reportsvc  reportdomain.Service
}

type Params struct {
	fx.In

	Log        *zap.Logger
	DB         *gorm.DB
	TenantSvc  tenantdomain.Service
	ReadingSvc readingdomain.Service
	BillSvc    billdomain.Service
	SettingSvc settingsdomain.Service
	ReportSvc  reportdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		log: p.Log.Named("server"),
		db:  p.DB,

		tenantsvc:  p.TenantSvc,
		readingsvc: p.ReadingSvc,
		billsvc:    p.BillSvc,
		settingsvc: p.SettingSvc,
		reportsvc:  p.ReportSvc,
	}
}

func (s *Server) Routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), metricsMiddleware())

	engine.GET("/healthz", s.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/v1")
	{
		v1.POST("/tenants", s.CreateTenant)
		v1.GET("/tenants", s.ListTenants)
		v1.GET("/tenants/:code", s.GetTenant)
		v1.PATCH("/tenants/:code", s.UpdateTenant)
		v1.DELETE("/tenants/:code", s.DeactivateTenant)

		v1.POST("/readings", s.AddReading)
		v1.GET("/tenants/:code/readings", s.ListReadings)
		v1.GET("/tenants/:code/readings/latest", s.LatestReading)

		v1.POST("/bills", s.GenerateBill)
		v1.GET("/bills/:id", s.GetBill)
		v1.POST("/bills/:id/pay", s.PayBill)
		v1.POST("/bills/:id/cancel", s.CancelBill)
		v1.GET("/bills", s.ListOutstandingBills)
		v1.POST("/bills/overdue-sweep", s.SweepOverdue)
		v1.GET("/tenants/:code/bills", s.ListTenantBills)

		v1.GET("/settings", s.ListSettings)
		v1.GET("/settings/:key", s.GetSetting)
		v1.PUT("/settings/:key", s.SetSetting)

		v1.GET("/reports/tenant-summary", s.TenantSummaryReport)
		v1.GET("/reports/monthly-consumption", s.MonthlyConsumptionReport)
	}

	return engine
}

// RunHTTP hooks the HTTP listener into the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, s *Server, cfg *config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: s.Routes(),
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.log.Info("http listening", zap.String("addr", cfg.HTTP.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
