package schema

import (
	"errors"
	"fmt"

	"github.com/aretw0/clickpath/pkg/domain"
)

// ValidationError is a tour document that failed validation.
type ValidationError struct {
	Key    string // Tour ID, or the document position when the ID is unknown
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tour %q: %s", e.Key, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrInvalidTour}
	}
	return []error{domain.ErrInvalidTour, e.Err}
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
