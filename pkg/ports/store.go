package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a DocumentStore when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Keys persisted for every document.
const (
	KeyStateMachine      = "stateMachine"
	KeyNodeBindings      = "nodeBindings"
	KeyCurrentState      = "currentState"
	KeyUISectionExpanded = "isUISectionExpanded"
)

// DocumentStore persists opaque string blobs per document and key.
// Values are JSON text; the store never interprets them.
type DocumentStore interface {
	// Get returns the blob stored under key for document.
	// Returns ErrNotFound if nothing was stored yet.
	Get(ctx context.Context, document, key string) (string, error)

	// Set replaces the blob stored under key for document.
	Set(ctx context.Context, document, key, value string) error

	// Delete removes every key of document.
	Delete(ctx context.Context, document string) error

	// List returns the ids of every document with at least one key.
	List(ctx context.Context) ([]string, error)
}
