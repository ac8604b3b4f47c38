package config

import (
	"fmt"
	"runtime"

	"github.com/Veraticus/digit-bayes/internal/common"
	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyDatabasePath = "database.path"
	KeyWorkers      = "workers"
	KeyLogLevel     = "logging.level"
	KeyLogFormat    = "logging.format"
)

// DefaultDatabasePath is where the model registry lives unless configured otherwise.
const DefaultDatabasePath = "~/.config/digits/digits.db"

// Config holds the settings shared by every command.
type Config struct {
	DatabasePath string
	LogLevel     string
	LogFormat    string
	Workers      int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads configuration from v (config file, DIGITS_ environment
// variables and bound flags) and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		Workers:      v.GetInt(KeyWorkers),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %d", common.ErrInvalidConfig, KeyWorkers, c.Workers)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
