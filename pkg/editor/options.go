package editor

import (
	"log/slog"

	"github.com/aretw0/protostate/pkg/binding"
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/expr"
	"github.com/aretw0/protostate/pkg/ports"
)

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithDocument names the document the editor persists under.
func WithDocument(id string) Option {
	return func(e *Editor) {
		e.document = id
	}
}

// WithStore sets where the editor's values are persisted. Without one, nothing is persisted.
func WithStore(store ports.DocumentStore) Option {
	return func(e *Editor) {
		e.store = store
	}
}

// WithHost sets the collaborator that applies binding side effects.
func WithHost(host ports.NodeMutator) Option {
	return func(e *Editor) {
		e.host = host
	}
}

// WithMessenger sets the channel used to post messages to the host application.
func WithMessenger(m ports.Messenger) Option {
	return func(e *Editor) {
		e.messenger = m
	}
}

// WithActions sets the dispatcher for transition actions. Without one, actions are only logged.
func WithActions(d ports.ActionDispatcher) Option {
	return func(e *Editor) {
		e.actions = d
	}
}

// WithLogger sets a custom structured logger for the editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithEvaluator shares an expression evaluator between editors.
func WithEvaluator(ev *expr.Evaluator) Option {
	return func(e *Editor) {
		e.evaluator = ev
	}
}

// WithBindingRecorder reports binding outcomes.
func WithBindingRecorder(r binding.Recorder) Option {
	return func(e *Editor) {
		e.recorder = r
	}
}

// WithDefaultMachine replaces the demo machine used when nothing is stored.
func WithDefaultMachine(m *domain.StateMachine) Option {
	return func(e *Editor) {
		e.defaultMachine = m
	}
}
