package reading

import (
	"github.com/aquabill-labs/aquabill/internal/reading/repository"
	"github.com/aquabill-labs/aquabill/internal/reading/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reading.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
