package config

import "time"

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"CARDFILE_HTTP_HOST"`
	Port              string        `env:"CARDFILE_HTTP_PORT" default:"8080"`
	ReadTimeout       time.Duration `env:"CARDFILE_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout      time.Duration `env:"CARDFILE_HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout       time.Duration `env:"CARDFILE_HTTP_IDLE_TIMEOUT" default:"120s"`
	ReadHeaderTimeout time.Duration `env:"CARDFILE_HTTP_READ_HEADER_TIMEOUT" default:"5s"`
}

// Addr returns the listen address in host:port form.
func (c HTTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}
