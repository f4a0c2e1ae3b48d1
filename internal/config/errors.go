package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// wrapInvalid attaches a reason to ErrInvalidConfig.
func wrapInvalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, reason)
}
