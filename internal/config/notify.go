package config

import "time"

// NotifyConfig holds notification dispatcher configuration.
type NotifyConfig struct {
	QueueSize   int           `env:"CARDFILE_NOTIFY_QUEUE_SIZE" default:"64"`
	SendTimeout time.Duration `env:"CARDFILE_NOTIFY_SEND_TIMEOUT" default:"30s"`
}
