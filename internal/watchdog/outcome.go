package watchdog

import "github.com/loykin/svcwatch/internal/service"

// Kind classifies the result of reconciling one service.
type Kind int

const (
	AlreadyRunning Kind = iota
	Started
	StartFailed
	NotFoundOrInaccessible
	UnknownState
)

func (k Kind) String() string {
	switch k {
	case AlreadyRunning:
		return "already_running"
	case Started:
		return "started"
	case StartFailed:
		return "start_failed"
	case NotFoundOrInaccessible:
		return "not_found"
	case UnknownState:
		return "unknown_state"
	default:
		return "invalid"
	}
}

// Outcome is the reconciliation result for a single service.
type Outcome struct {
	Service string
	Kind    Kind
	// Status is the state observed before any action. Zero when the query failed.
	Status service.Status
	// Err is the adapter error for StartFailed and NotFoundOrInaccessible.
	Err error
}

// Unhealthy reports whether this outcome fails the pass.
func (o Outcome) Unhealthy() bool {
	return o.Kind == StartFailed || o.Kind == UnknownState
}
