package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions callers are expected to branch on.
// Store and service code wraps them with fmt.Errorf("...: %w", err) so
// callers discriminate with errors.Is.
var (
	// ErrRecordNotFound means the record id does not reference an
	// existing record. Distinct from ErrPermissionDenied.
	ErrRecordNotFound = errors.New("record not found")

	// ErrPermissionDenied means the actor is not the record's creator.
	// The record is left untouched.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotInGroup means the profile exists but has not joined a group.
	ErrNotInGroup = errors.New("not in a group")

	// ErrProfileNotFound means no profile exists for the external id.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrGroupNotFound means the group id does not reference an existing
	// group.
	ErrGroupNotFound = errors.New("group not found")
)

// ValidationError reports malformed or out-of-range input. It is raised
// before any mutation, so no partial state change accompanies it.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
