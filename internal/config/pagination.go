package config

import "fmt"

// PaginationConfig holds pagination configuration.
type PaginationConfig struct {
	DefaultPageSize int `env:"CARDFILE_DEFAULT_PAGE_SIZE" default:"10"`
	MaxPageSize     int `env:"CARDFILE_MAX_PAGE_SIZE" default:"50"`
}

// Validate validates pagination configuration.
func (c *PaginationConfig) Validate() error {
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("CARDFILE_DEFAULT_PAGE_SIZE must be positive, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("CARDFILE_MAX_PAGE_SIZE (%d) must be >= CARDFILE_DEFAULT_PAGE_SIZE (%d)",
			c.MaxPageSize, c.DefaultPageSize)
	}
	return nil
}
