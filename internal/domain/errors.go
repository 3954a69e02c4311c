package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("conflict")

	// Dispute lifecycle failures. All of them are caller errors and must not be retried.
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrInvalidTemporalOrder = errors.New("invalid temporal order")
	ErrInvalidOutcomeData   = errors.New("invalid outcome data")
	ErrInvalidItemReference = errors.New("invalid item reference")

	// ErrStorageUnavailable is the only retryable kind.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// IsRetryable reports whether err may succeed when retried with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// TransitionError reports an action attempted from a status that does not allow it.
// An empty From means the dispute was deleted by a concurrent writer.
type TransitionError struct {
	DisputeID uuid.UUID
	From      DisputeStatus
	Action    Action
}

func (e *TransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("dispute %s: cannot %s: deleted concurrently", e.DisputeID, e.Action)
	}
	return fmt.Sprintf("dispute %s: cannot %s from %s", e.DisputeID, e.Action, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// NewTransitionError creates a TransitionError.
func NewTransitionError(id uuid.UUID, from DisputeStatus, action Action) *TransitionError {
	return &TransitionError{DisputeID: id, From: from, Action: action}
}

// NewDeletedTransitionError reports a guarded write whose dispute was removed
// after the caller read it.
func NewDeletedTransitionError(id uuid.UUID, action Action) *TransitionError {
	return &TransitionError{DisputeID: id, Action: action}
}
