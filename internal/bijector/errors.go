package bijector

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrConfig          = errors.New("invalid bijector configuration")
	ErrDimension       = errors.New("dimension mismatch")
	ErrParams          = errors.New("params do not belong to this bijector")
	ErrUnknownBijector = errors.New("unknown bijector")
)

// ConfigError provides detailed information about a rejected configuration.
//
// It always unwraps to ErrConfig.
type ConfigError struct {
	Bijector string // Bijector being configured (e.g., "Scale")
	Arg      string // Offending argument, empty when the problem spans several
	Details  string // What is wrong with it
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Arg != "" {
		return fmt.Sprintf("%s: %s: %s", e.Bijector, e.Arg, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Bijector, e.Details)
}

// Unwrap makes errors.Is(err, ErrConfig) hold.
func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

func configErrorf(bijector, arg, format string, a ...any) error {
	return &ConfigError{Bijector: bijector, Arg: arg, Details: fmt.Sprintf(format, a...)}
}
