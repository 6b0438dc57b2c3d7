package tenant

import (
	"github.com/aquabill-labs/aquabill/internal/tenant/repository"
	"github.com/aquabill-labs/aquabill/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
