package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested idea does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition indicates a status change not present in the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// Enrichment Errors.

	// ErrEnrichmentInProgress indicates a request of the same kind is already
	// outstanding for the idea.
	ErrEnrichmentInProgress = errors.New("enrichment in progress")

	// ErrEnrichmentService indicates the external enrichment call failed.
	ErrEnrichmentService = errors.New("enrichment service failed")

	// ErrEnrichmentUnavailable indicates no enrichment provider is configured.
	// Run 'ideabox settings set' to configure one.
	ErrEnrichmentUnavailable = errors.New("enrichment service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

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
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fmt.Sprintf("validation: %d errors (%s)", len(e.Errors), strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NotFoundError reports an unknown idea ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("idea %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StateTransitionError reports a status edge missing from the transition table.
type StateTransitionError struct {
	From Status
	To   Status
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot move idea from %s to %s", e.From, e.To)
}

func (e *StateTransitionError) Unwrap() error { return ErrInvalidTransition }

// InProgressError reports a duplicate request for an (idea, kind) pair that
// already has one outstanding.
type InProgressError struct {
	IdeaID string
	Kind   EnrichmentKind
}

func (e *InProgressError) Error() string {
	return fmt.Sprintf("%s already in progress for idea %q", e.Kind, e.IdeaID)
}

func (e *InProgressError) Unwrap() error { return ErrEnrichmentInProgress }

// ServiceError wraps a failure returned by the external enrichment service.
type ServiceError struct {
	Kind EnrichmentKind
	Err  error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *ServiceError) Unwrap() []error { return []error{ErrEnrichmentService, e.Err} }
