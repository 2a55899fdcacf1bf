// Package mutator implements the structural edits of a state machine.
//
// Every operation returns a new snapshot and leaves its input untouched.
// The mutator never reads or writes the current state; callers that track one
// adjust it after a rename or removal.
package mutator

import (
	"fmt"

	"github.com/aretw0/protostate/pkg/domain"
)

// UpsertOption configures UpsertState.
type UpsertOption func(*upsertOptions)

type upsertOptions struct {
	makeInitialIfFirst bool
}

// WithMakeInitialIfFirst controls whether the first state added to an empty
// machine becomes its initial state. Enabled by default.
func WithMakeInitialIfFirst(enabled bool) UpsertOption {
	return func(o *upsertOptions) {
		o.makeInitialIfFirst = enabled
	}
}

// SetInitial replaces the initial state. The name is not required to exist.
func SetInitial(m *domain.StateMachine, name string) *domain.StateMachine {
	return rebuild(name, m.States())
}

// UpsertState replaces the value of name in place, or appends it when it is not defined.
func UpsertState(m *domain.StateMachine, name string, value domain.StateValue, opts ...UpsertOption) *domain.StateMachine {
	o := upsertOptions{makeInitialIfFirst: true}
	for _, opt := range opts {
		opt(&o)
	}

	states := m.States()
	if i := m.IndexOf(name); i >= 0 {
		states[i].Value = value
		return rebuild(m.Initial(), states)
	}

	initial := m.Initial()
	if len(states) == 0 && o.makeInitialIfFirst {
		initial = name
	}
	return rebuild(initial, append(states, domain.State{Name: name, Value: value}))
}

// RenameState replaces oldName with newName and value at the same position,
// retargets every transition pointing at oldName and follows the initial state.
//
// It fails with a *domain.ValidationError wrapping domain.ErrDuplicateState when
// newName is already taken by another state, and with domain.ErrStateNotFound
// when oldName is not defined.
func RenameState(m *domain.StateMachine, oldName, newName string, value domain.StateValue) (*domain.StateMachine, error) {
	i := m.IndexOf(oldName)
	if i < 0 {
		return nil, fmt.Errorf("rename %q: %w", oldName, domain.ErrStateNotFound)
	}
	if newName != oldName && m.Has(newName) {
		return nil, &domain.ValidationError{Reason: "duplicate name", Err: domain.ErrDuplicateState}
	}

	states := m.States()
	states[i] = domain.State{Name: newName, Value: value}
	if newName != oldName {
		// The renamed state itself is included so self-transitions follow.
		for j := range states {
			states[j].Value = states[j].Value.Retarget(oldName, newName)
		}
	}

	initial := m.Initial()
	if initial == oldName {
		initial = newName
	}
	return rebuild(initial, states), nil
}

// RemoveState drops name. Transitions into it are left dangling on purpose.
// When name was initial, the first remaining state takes over, or "" when none remain.
func RemoveState(m *domain.StateMachine, name string) *domain.StateMachine {
	i := m.IndexOf(name)
	if i < 0 {
		return m
	}

	states := m.States()
	states = append(states[:i], states[i+1:]...)

	initial := m.Initial()
	if initial == name {
		initial = ""
		if len(states) > 0 {
			initial = states[0].Name
		}
	}
	return rebuild(initial, states)
}

// rebuild assembles a snapshot from states that are already known to be unique.
func rebuild(initial string, states []domain.State) *domain.StateMachine {
	m, err := domain.NewStateMachine(initial, states...)
	if err != nil {
		// Unreachable: every caller preserves name uniqueness.
		panic(err)
	}
	return m
}
