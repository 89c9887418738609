package config

import "errors"

// ErrJWTSecretRequired is returned when no token signing secret is set.
var ErrJWTSecretRequired = errors.New("CARDFILE_JWT_SECRET is required")

// AuthConfig holds token verification configuration.
type AuthConfig struct {
	// JWTSecret is the HS256 signing secret shared with the identity
	// provider.
	JWTSecret string `env:"CARDFILE_JWT_SECRET"`

	// JWTIssuer is the expected iss claim. Empty disables the check.
	JWTIssuer string `env:"CARDFILE_JWT_ISSUER" default:"cardfile"`
}

// Validate validates auth configuration.
func (c *AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return ErrJWTSecretRequired
	}
	return nil
}
