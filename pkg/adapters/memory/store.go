package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/protostate/pkg/ports"
)

// Store implements ports.DocumentStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]map[string]string),
	}
}

// Get returns the blob stored under key for document.
func (s *Store) Get(ctx context.Context, document, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[document][key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return value, nil
}

// Set stores value under key for document.
func (s *Store) Set(ctx context.Context, document, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[document]
	if !ok {
		doc = make(map[string]string)
		s.data[document] = doc
	}
	doc[key] = value
	return nil
}

// Delete removes every key of document.
func (s *Store) Delete(ctx context.Context, document string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, document)
	return nil
}

// List returns all document ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids) // Deterministic order
	return ids, nil
}
