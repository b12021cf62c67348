package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrNotFound is wrapped by every lookup that misses.
var ErrNotFound = errors.New("not found")

func notFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}

// ValidationError carries the messages of a rejected input. Nothing has
// been mutated when it is returned.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Messages) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func invalid(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// fromValidation converts ozzo-validation errors into a ValidationError
// with one "field: message" entry per failed field, sorted by field.
func fromValidation(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return invalid(err.Error())
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := &ValidationError{}
	for _, f := range fields {
		var nested validation.Errors
		if errors.As(errs[f], &nested) {
			if ve, ok := fromValidation(nested).(*ValidationError); ok {
				for _, m := range ve.Messages {
					out.Messages = append(out.Messages, f+"."+m)
				}
				continue
			}
		}
		out.Messages = append(out.Messages, f+": "+errs[f].Error())
	}
	return out
}

// InvariantViolation reports an operation that would corrupt stored data,
// such as a characteristic declared in both sections of a product or an
// edit to a superseded quote version.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Reason
}

func violation(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Reason: fmt.Sprintf(format, args...)}
}
