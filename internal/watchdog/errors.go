package watchdog

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("watchdog: configuration error")
	// ErrDiscovery is matched by every *DiscoveryError.
	ErrDiscovery = errors.New("watchdog: service discovery failed")
	// ErrUnhealthy reports a completed pass whose verdict is not healthy.
	ErrUnhealthy = errors.New("some services failed to start")
)

// ConfigError is a fatal problem detected before any service is checked.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// Configf builds a *ConfigError from a format string.
func Configf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// DiscoveryError wraps a failed prefix enumeration.
type DiscoveryError struct {
	Prefixes []string
	Err      error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("failed to list services: %v", e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

func (e *DiscoveryError) Is(target error) bool { return target == ErrDiscovery }
