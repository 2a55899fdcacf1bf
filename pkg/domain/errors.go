package domain

import "errors"

// ErrDuplicateState is returned when a state name is already taken by a different state.
var ErrDuplicateState = errors.New("duplicate name")

// ErrStateNotFound is returned when an operation names a state that is not defined.
var ErrStateNotFound = errors.New("state not found")

// ErrEventNotFound is returned when the current state does not handle the requested event.
var ErrEventNotFound = errors.New("event not found")

// ErrUnresolvedTarget is returned when firing an event whose target state is not defined.
var ErrUnresolvedTarget = errors.New("transition target is not defined")

// ErrGuardRejected is returned when a transition guard does not evaluate to true.
var ErrGuardRejected = errors.New("transition guard rejected")

// ErrAlreadyBound is returned when a node already has an entry in the binding list.
var ErrAlreadyBound = errors.New("node already bound")

// ErrBindingNotFound is returned when a binding update names an unknown node or property.
var ErrBindingNotFound = errors.New("binding not found")

// ValidationError reports user input that was rejected without touching the model.
// Reason is meant to be shown verbatim next to the offending field.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
