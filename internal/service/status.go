package service

import "strconv"

// Status is the run state reported by the service manager. The numeric
// values follow the Windows SCM SERVICE_* state codes so a raw code read
// from the OS can be carried without translation.
type Status uint32

const (
	Stopped         Status = 1
	StartPending    Status = 2
	StopPending     Status = 3
	Running         Status = 4
	ContinuePending Status = 5
	PausePending    Status = 6
	Paused          Status = 7
)

// String returns the upper-case state name, or UNKNOWN(<code>) for codes
// outside the known set.
func (s Status) String() string {
	switch s {
	case Stopped:
		return "STOPPED"
	case StartPending:
		return "START_PENDING"
	case StopPending:
		return "STOP_PENDING"
	case Running:
		return "RUNNING"
	case ContinuePending:
		return "CONTINUE_PENDING"
	case PausePending:
		return "PAUSE_PENDING"
	case Paused:
		return "PAUSED"
	default:
		return "UNKNOWN(" + strconv.FormatUint(uint64(s), 10) + ")"
	}
}

// Known reports whether s is one of the defined states.
func (s Status) Known() bool {
	return s >= Stopped && s <= Paused
}

// Entry is one row of a service enumeration.
type Entry struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Status      Status `json:"status"`
}
