package connectivity

import (
	"fmt"
	"strings"
	"time"

	apperrors "brt/pkg/errors"
)

// State is the reachability value exposed to the presentation shell.
type State int

const (
	// Online is also the optimistic default used before any event arrives.
	Online State = iota
	Offline
	// Unknown is only ever exposed when the operator opts into it, either as
	// the startup state or as the failure policy.
	Unknown
)

func (s State) String() string {
	switch s {
	case Online:
		return "online"
	case Offline:
		return "offline"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Label returns the capitalised form shown in the UI ("Online", "Offline").
func (s State) Label() string {
	str := s.String()
	return strings.ToUpper(str[:1]) + str[1:]
}

// ParseState parses "online", "offline" or "unknown".
func ParseState(v string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "online", "":
		return Online, nil
	case "offline":
		return Offline, nil
	case "unknown":
		return Unknown, nil
	default:
		return Online, fmt.Errorf("%w: state %q (available: online, offline, unknown)", apperrors.ErrInvalidSetting, v)
	}
}

// FailurePolicy decides what Mount does when the notifier refuses a subscription.
type FailurePolicy string

const (
	// FailPropagate returns the error from Mount; the shell treats it as fatal.
	FailPropagate FailurePolicy = "propagate"
	// FailOffline mounts without a subscription and exposes Offline.
	FailOffline FailurePolicy = "offline"
	// FailUnknown mounts without a subscription and exposes Unknown.
	FailUnknown FailurePolicy = "unknown"
)

// ParseFailurePolicy parses a failure policy name. Empty means FailPropagate.
func ParseFailurePolicy(v string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(v))); p {
	case "":
		return FailPropagate, nil
	case FailPropagate, FailOffline, FailUnknown:
		return p, nil
	default:
		return FailPropagate, fmt.Errorf("%w: failure policy %q (available: propagate, offline, unknown)", apperrors.ErrInvalidSetting, v)
	}
}

// Event is a connectivity notification. Only IsConnected drives the observer;
// Target and CheckedAt are informational.
type Event struct {
	IsConnected bool
	Target      string
	CheckedAt   time.Time
}

// StateOf maps an event to the state it produces.
func StateOf(ev Event) State {
	if ev.IsConnected {
		return Online
	}
	return Offline
}
