package config

import "fmt"

// MailConfig holds SMTP configuration for notification emails. When
// disabled, notifications are dropped silently.
type MailConfig struct {
	Enabled  bool   `env:"CARDFILE_MAIL_ENABLED"`
	Host     string `env:"CARDFILE_MAIL_HOST"`
	Port     int    `env:"CARDFILE_MAIL_PORT" default:"587"`
	Username string `env:"CARDFILE_MAIL_USERNAME"`
	Password string `env:"CARDFILE_MAIL_PASSWORD"`
	From     string `env:"CARDFILE_MAIL_FROM" default:"noreply@cardfile.local"`
}

// Validate validates mail configuration.
func (c *MailConfig) Validate() error {
	if c.Enabled && c.Host == "" {
		return fmt.Errorf("CARDFILE_MAIL_HOST is required when CARDFILE_MAIL_ENABLED is true")
	}
	return nil
}
