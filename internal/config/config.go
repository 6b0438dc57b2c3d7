package config

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config carries process-level configuration. Billing parameters live in the
// settings store, not here; config only covers infrastructure concerns.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads aquabill.yaml (optional) and AQUABILL_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "aquabill.db")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")

	v.SetConfigName("aquabill")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/aquabill")

	v.SetEnvPrefix("AQUABILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(in fsnotify.Event) {
		// Reload is best effort. Snapshot-sensitive values (rates, currency)
		// are never read from here, so a partial reload cannot corrupt bills.
		_ = v.Unmarshal(&cfg)
	})
	v.WatchConfig()

	return &cfg, nil
}
