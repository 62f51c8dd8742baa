package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type BaseServerConfig struct {
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	Log      LogServerConfig      `mapstructure:"log"      yaml:"log"`
	Data     DataServerConfig     `mapstructure:"data"     yaml:"data"`
	Metadata MetadataServerConfig `mapstructure:"metadata" yaml:"metadata"`
	HTTP     HTTPServerConfig     `mapstructure:"http"     yaml:"http"`
}

func LoadServerConfig() (*BaseServerConfig, error) {
	cfg := &BaseServerConfig{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (cfg *BaseServerConfig) Validate() error {
	switch cfg.Data.Source {
	case DataSourceFile:
		if cfg.Data.Path == "" {
			return fmt.Errorf("data.path is required for source '%s'", DataSourceFile)
		}
	case DataSourceSQLite:
		if cfg.Metadata.SQLite.Path == "" {
			return fmt.Errorf("metadata.sqlite.path is required for source '%s'", DataSourceSQLite)
		}
	default:
		return fmt.Errorf("unknown data.source '%s' (expected '%s' or '%s')",
			cfg.Data.Source, DataSourceFile, DataSourceSQLite)
	}

	if _, err := time.ParseDuration(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout '%s': %w", cfg.ShutdownTimeout, err)
	}

	if cfg.HTTP.Address == "" {
		return fmt.Errorf("http.address must not be empty")
	}

	return nil
}

func (cfg *BaseServerConfig) ShutdownDuration() time.Duration {
	d, err := time.ParseDuration(cfg.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
