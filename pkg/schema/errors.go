package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Dotted path of the field, empty for the root value
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return e.Reason
	}
	return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
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

// nest attributes err to key, prefixing the paths of nested validation errors.
func nest(key string, value any, err error) []error {
	if err == nil {
		return nil
	}
	var aggr *AggregateError
	if !errors.As(err, &aggr) {
		return []error{&ValidationError{Key: key, Reason: err.Error(), Value: value}}
	}
	out := make([]error, 0, len(aggr.Errors))
	for _, inner := range aggr.Errors {
		var ve *ValidationError
		if !errors.As(inner, &ve) {
			out = append(out, &ValidationError{Key: key, Reason: inner.Error(), Value: value})
			continue
		}
		path := key
		switch {
		case key == "":
			path = ve.Key
		case ve.Key != "":
			path = key + "." + ve.Key
		}
		out = append(out, &ValidationError{Key: path, Reason: ve.Reason, Value: ve.Value})
	}
	return out
}

func aggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}
