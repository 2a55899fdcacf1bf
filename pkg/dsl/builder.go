package dsl

import (
	"fmt"

	"github.com/aretw0/protostate/pkg/domain"
)

// Builder manages the machine construction.
type Builder struct {
	initial string
	order   []string
	states  map[string]*StateBuilder
}

// New creates a new machine builder.
func New() *Builder {
	return &Builder{
		states: make(map[string]*StateBuilder),
	}
}

// Initial sets the initial state. When never called, the first added state is used.
func (b *Builder) Initial(name string) *Builder {
	b.initial = name
	return b
}

// State creates a new state in the machine.
// If the state already exists, it returns the existing builder.
func (b *Builder) State(name string) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{name: name, builder: b}
	b.states[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Build compiles the states into an immutable machine snapshot.
func (b *Builder) Build() (*domain.StateMachine, error) {
	initial := b.initial
	if initial == "" && len(b.order) > 0 {
		initial = b.order[0]
	}

	states := make([]domain.State, 0, len(b.order))
	for _, name := range b.order {
		states = append(states, b.states[name].Build())
	}

	m, err := domain.NewStateMachine(initial, states...)
	if err != nil {
		return nil, fmt.Errorf("failed to build state machine: %w", err)
	}
	return m, nil
}

// MustBuild is like Build but panics on error. Intended for package-level defaults.
func (b *Builder) MustBuild() *domain.StateMachine {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
