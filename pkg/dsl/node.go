package dsl

import "github.com/aretw0/protostate/pkg/domain"

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	name    string
	events  []domain.Event
	builder *Builder
}

// On adds an event that moves to target, written in the shorthand form.
func (s *StateBuilder) On(event, target string) *StateBuilder {
	return s.set(event, domain.Shorthand(target))
}

// Do adds an event that moves to target and runs actions, written in the full form.
func (s *StateBuilder) Do(event, target string, actions ...string) *StateBuilder {
	return s.set(event, domain.Full(target, actions...))
}

// Guard adds an event that only fires when expression evaluates to true.
func (s *StateBuilder) Guard(event, target, expression string, actions ...string) *StateBuilder {
	return s.set(event, domain.Full(target, actions...).WithGuard(expression))
}

// State continues building another state of the same machine.
func (s *StateBuilder) State(name string) *StateBuilder {
	return s.builder.State(name)
}

// Build returns the underlying domain.State.
// This is primarily used by the Builder, but exposed for advanced usage.
func (s *StateBuilder) Build() domain.State {
	return domain.State{Name: s.name, Value: domain.NewStateValue(s.events...)}
}

func (s *StateBuilder) set(event string, value domain.EventValue) *StateBuilder {
	for i := range s.events {
		if s.events[i].Name == event {
			s.events[i].Value = value
			return s
		}
	}
	s.events = append(s.events, domain.Event{Name: event, Value: value})
	return s
}
