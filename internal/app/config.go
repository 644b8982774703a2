package app

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"NANOERP_ENV" default:"development"`
	AppAddr           string        `envconfig:"NANOERP_ADDR" default:"127.0.0.1:8714"`
	AppReadTimeout    time.Duration `envconfig:"NANOERP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"NANOERP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"NANOERP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"NANOERP_LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"NANOERP_LOG_LEVEL" default:"info"`

	DBPath    string `envconfig:"NANOERP_DB_PATH" default:"data/nanoerp.db"`
	BackupDir string `envconfig:"NANOERP_BACKUP_DIR" default:"data/backups"`

	LowStockThreshold float64 `envconfig:"NANOERP_LOW_STOCK_THRESHOLD" default:"10"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
