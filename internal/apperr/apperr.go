// Package apperr defines the error taxonomy the workspace core raises:
// validation failures caused by the caller's payload, and lookups that
// resolve to nothing. Handlers translate these into protocol responses.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports a client-caused payload problem. Field is the
// payload key the message refers to; it is empty for cross-field failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Required builds the canonical missing-field error.
func Required(field string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("%s is required.", field)}
}

// Invalid builds a field-qualified validation error.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: field + " " + fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing project, workspace, or sub-entity. An
// entity that exists but belongs to a different workspace is also reported
// through this type; the caller cannot tell the two cases apart.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
