// Package registry resolves transition action names to host-provided functions.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/protostate/pkg/domain"
)

// ErrActionNotFound is returned when no function is registered under an action name.
var ErrActionNotFound = errors.New("action not found")

// ActionFunction defines the signature for an action implementation.
type ActionFunction func(ctx context.Context, req domain.ActionRequest) error

// Registry manages the available actions. It implements ports.ActionDispatcher.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]ActionFunction
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]ActionFunction),
	}
}

// Register adds an action to the registry.
// If an action with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn ActionFunction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
}

// Names returns the registered action names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch looks up the requested action and executes it.
// Returns ErrActionNotFound if the action is not registered.
func (r *Registry) Dispatch(ctx context.Context, req domain.ActionRequest) error {
	r.mu.RLock()
	fn, ok := r.actions[req.Action]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrActionNotFound, req.Action)
	}

	return fn(ctx, req)
}
