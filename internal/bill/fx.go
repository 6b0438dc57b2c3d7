package bill

import (
	"github.com/aquabill-labs/aquabill/internal/bill/repository"
	"github.com/aquabill-labs/aquabill/internal/bill/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bill.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
