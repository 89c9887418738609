// Package config defines the environment-driven configuration for the
// cardfile server. All variables share the CARDFILE_ prefix.
package config

import (
	"fmt"
	"time"

	"github.com/rezkam/cardfile/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	HTTP            HTTPConfig
	Database        DatabaseConfig
	Auth            AuthConfig
	Pagination      PaginationConfig
	Mail            MailConfig
	Notify          NotifyConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"CARDFILE_SHUTDOWN_TIMEOUT" default:"15s"`
}

// Load loads and validates server configuration from the environment.
func Load() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	return cfg, nil
}
