package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when an operation requires a schedule
	// state it is not in (auto-assign or publish on a non-draft schedule).
	ErrInvalidState = errors.New("schedule state does not permit this operation")

	// ErrBusy is returned when an assignment run is already in progress
	// for the schedule. Callers should retry later rather than queue.
	ErrBusy = errors.New("assignment run already in progress for this schedule")

	// ErrNotFound is returned when a referenced entity does not exist
	ErrNotFound = errors.New("not found")
)

// ValidationError reports malformed input rejected at write time, such as
// overlapping recurring availability entries for the same weekday.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// Validationf builds a ValidationError from a format string
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports conflicting availability exceptions for the
// same profile, date and sub-window. It is surfaced as a warning with a
// deterministic tie-break applied, never as a run failure.
type ConfigurationError struct {
	ProfileID string
	Date      Date
	Detail    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("conflicting availability configuration for profile %s on %s: %s", e.ProfileID, e.Date, e.Detail)
}
