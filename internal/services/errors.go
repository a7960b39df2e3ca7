// Package services holds the CleanCity application logic: report lifecycle,
// accounts, leaderboard and stats, export, and assistant sessions.
//
// This file centralizes service-level error values. Translation into HTTP
// status codes is done by the handlers.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrCapabilityDenied is returned when the user refused camera or
	// location access.
	ErrCapabilityDenied = errors.New("capability denied")

	ErrReportNotFound = errors.New("report not found")
	ErrUserNotFound   = errors.New("user not found")

	// ErrDuplicateAccount is returned when registering an email that is
	// already taken.
	ErrDuplicateAccount = errors.New("account already exists")

	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSubmissionInFlight rejects a second submit by the same user while
	// the first is still running.
	ErrSubmissionInFlight = errors.New("a report submission is already in progress")

	// ErrComposing rejects a message while the assistant is still replying.
	ErrComposing = errors.New("assistant is still composing a reply")

	// ErrEmptyPrompt is returned for blank assistant input.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrTooLong is returned when assistant input exceeds the rune limit.
	ErrTooLong = errors.New("prompt too long")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
