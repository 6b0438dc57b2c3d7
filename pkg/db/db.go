// Package db opens the gorm handle for the configured driver. The handle is
// injected into every component; there is no package-level connection state.
package db

import (
	"context"
	"fmt"

	"github.com/aquabill-labs/aquabill/internal/config"
	"github.com/glebarez/sqlite"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Log    *zap.Logger
}

func New(p Params) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch p.Config.Database.Driver {
	case "sqlite", "":
		dialector = sqlite.Open(p.Config.Database.DSN)
	case "postgres":
		dialector = postgres.Open(p.Config.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", p.Config.Database.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}

	p.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := sqlDB.PingContext(ctx); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}
			p.Log.Info("database ready",
				zap.String("driver", p.Config.Database.Driver),
			)
			return nil
		},
		OnStop: func(context.Context) error {
			return sqlDB.Close()
		},
	})

	return conn, nil
}

var Module = fx.Module("db",
	fx.Provide(New),
)
