// Package service is the narrow adapter between the watchdog and the host
// service manager.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the service is not registered with the service manager.
	ErrNotFound = errors.New("service: not found")

	// ErrAccessDenied indicates the caller lacks rights on the service or the manager.
	ErrAccessDenied = errors.New("service: access denied")

	// ErrUnsupported is returned by every call on platforms without a controller.
	ErrUnsupported = errors.New("service: unsupported platform")
)

// Controller queries and starts services on the local host.
// Implementations perform blocking calls and hold no state between them.
type Controller interface {
	// Status returns the current state of the named service.
	Status(name string) (Status, error)
	// Start requests the named service to start. It does not wait for RUNNING.
	Start(name string) error
	// List enumerates all registered services in registry order.
	List() ([]Entry, error)
}

// Op names a controller operation for error reporting.
type Op string

const (
	OpStatus Op = "status"
	OpStart  Op = "start"
	OpList   Op = "list"
)

// OpError records a failed controller call.
type OpError struct {
	Op      Op
	Service string
	Err     error
}

func (e *OpError) Error() string {
	if e.Service == "" {
		return fmt.Sprintf("service %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("service %s %q: %v", e.Op, e.Service, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
