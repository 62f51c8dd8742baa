package server

import "time"

const (
	DataSourceFile   = "file"
	DataSourceSQLite = "sqlite"
)

const defaultDebounce = 500 * time.Millisecond

// DataServerConfig describes where the lens collection is loaded from.
type DataServerConfig struct {
	Source   string `mapstructure:"source"   yaml:"source"`
	Path     string `mapstructure:"path"     yaml:"path"`
	Strict   bool   `mapstructure:"strict"   yaml:"strict"`
	Watch    bool   `mapstructure:"watch"    yaml:"watch"`
	Debounce string `mapstructure:"debounce" yaml:"debounce"`
}

// DebounceDuration falls back to 500ms when the value is empty or invalid.
func (cfg DataServerConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(cfg.Debounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}
	return d
}
