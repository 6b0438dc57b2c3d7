package report

import (
	"github.com/aquabill-labs/aquabill/internal/report/repository"
	"github.com/aquabill-labs/aquabill/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
