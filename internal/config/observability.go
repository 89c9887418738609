package config

// ObservabilityConfig holds observability configuration. The OTLP endpoint
// itself is configured through the standard OTEL_EXPORTER_OTLP_* variables.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"CARDFILE_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME" default:"cardfile"`
}
