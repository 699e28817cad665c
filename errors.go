package mapstress

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every *ConfigError.
	ErrInvalidConfig = errors.New("mapstress: invalid configuration")
	// ErrUnknownTest is returned for a test name that has no driver.
	ErrUnknownTest = errors.New("mapstress: unknown test")
	// ErrUnknownTable is returned for a table name with no adapter.
	ErrUnknownTable = errors.New("mapstress: unknown table")
	// ErrKeySource wraps failures to load external key samples.
	ErrKeySource = errors.New("mapstress: key source")
)

// ConfigError describes one rejected configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mapstress: invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
