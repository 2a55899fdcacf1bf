package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventTransition EventType = "transition"
	EventMutation   EventType = "mutation"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Document  string    `json:"document"`
}

// TransitionEvent is emitted after the current state changes by firing an event.
type TransitionEvent struct {
	EventBase
	From    string   `json:"from"`
	To      string   `json:"to"`
	Event   string   `json:"event"`
	Actions []string `json:"actions,omitempty"`
}

// MutationEvent is emitted after the machine definition changes.
type MutationEvent struct {
	EventBase
	Operation string `json:"operation"`
	State     string `json:"state,omitempty"`
}

// LifecycleHooks defines callbacks for editor observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnMutation   func(context.Context, *MutationEvent)
}
