package apperror

import (
	"errors"
	"fmt"
)

// ValidationError reports a violated write-time rule. Field names the
// offending attribute so the API layer can attribute the failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a ValidationError for a specific field and rule.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError covers both truly absent records and records outside the
// caller's access scope. The two cases are indistinguishable on purpose.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
