package errors

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// Connectivity errors
	ErrAlreadyMounted      = errors.New("observer is already mounted")
	ErrNotifierUnavailable = errors.New("connectivity notifier unavailable")
	ErrNoProbeTargets      = errors.New("no probe targets configured")
	ErrProbeFailed         = errors.New("probe failed")
	ErrProberRunning       = errors.New("prober is already running")
	ErrProberNotRunning    = errors.New("prober is not running")

	// Settings errors
	ErrSettingNotFound = errors.New("setting not found")
	ErrInvalidSetting  = errors.New("invalid setting value")
	ErrUnknownSetting  = errors.New("unknown setting")

	// Reference material errors
	ErrReferenceInvalid = errors.New("invalid reference material")
)

// NotifierError represents a failure of the connectivity notification source
type NotifierError struct {
	Source string
	Err    error
}

func (e *NotifierError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("notifier '%s': %v", e.Source, e.Err)
	}
	return fmt.Sprintf("notifier: %v", e.Err)
}

func (e *NotifierError) Unwrap() error {
	return e.Err
}

// SettingError represents a settings-related error
type SettingError struct {
	Key   string
	Value string
	Err   error
}

func (e *SettingError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("setting '%s' = %q: %v", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("setting '%s': %v", e.Key, e.Err)
}

func (e *SettingError) Unwrap() error {
	return e.Err
}

// NetworkError represents a network-related error
type NetworkError struct {
	Address string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error (%s): %v", e.Address, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
