package settings

import (
	"github.com/aquabill-labs/aquabill/internal/settings/repository"
	"github.com/aquabill-labs/aquabill/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
