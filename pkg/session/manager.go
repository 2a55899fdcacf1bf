package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/protostate/internal/logging"
	"github.com/aretw0/protostate/pkg/editor"
	"github.com/aretw0/protostate/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed document lock is held.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates editor access per document, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.DocumentStore

	mu      sync.Mutex                // Global lock for the maps
	locks   map[string]*lockEntry     // Map of active locks
	editors map[string]*editor.Editor // Loaded editors by document

	locker     ports.DistributedLocker // Optional distributed locker
	lockTTL    time.Duration
	editorOpts []editor.Option
	docOpts    []func(document string) []editor.Option
	logger     *slog.Logger // Logger for internal events (like deferred errors)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking. Each locked operation then reloads
// the editor from the store first, so it composes on what other replicas wrote.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithEditorOptions are applied to every editor the manager creates.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(m *Manager) {
		m.editorOpts = append(m.editorOpts, opts...)
	}
}

// WithDocumentEditorOptions adds options built for each document, such as a
// host adapter bound to that document.
func WithDocumentEditorOptions(fn func(document string) []editor.Option) Option {
	return func(m *Manager) {
		m.docOpts = append(m.docOpts, fn)
	}
}

// NewManager creates a new Manager persisting documents in store.
func NewManager(store ports.DocumentStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		editors: make(map[string]*editor.Editor),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(document) after unlocking.
func (m *Manager) acquire(document string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[document]
	if !exists {
		entry = &lockEntry{}
		m.locks[document] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(document string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[document]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, document)
	}
}

// Open returns the editor of a document, loading it from the store on first use.
func (m *Manager) Open(ctx context.Context, document string) (*editor.Editor, error) {
	var e *editor.Editor
	err := m.withDocumentLock(ctx, document, func(ctx context.Context) error {
		var err error
		e, _, err = m.editor(ctx, document)
		return err
	})
	return e, err
}

// WithLock runs fn with exclusive access to the document's editor.
func (m *Manager) WithLock(ctx context.Context, document string, fn func(context.Context, *editor.Editor) error) error {
	return m.withDocumentLock(ctx, document, func(ctx context.Context) error {
		e, loaded, err := m.editor(ctx, document)
		if err != nil {
			return err
		}
		if m.locker != nil && !loaded {
			if err := e.Load(ctx); err != nil {
				return err
			}
		}
		return fn(ctx, e)
	})
}

// Delete removes the document from the store and forgets its editor.
func (m *Manager) Delete(ctx context.Context, document string) error {
	return m.withDocumentLock(ctx, document, func(ctx context.Context) error {
		m.Close(document)
		return m.store.Delete(ctx, document)
	})
}

// Close forgets the cached editor of a document. The next access reloads it.
func (m *Manager) Close(document string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.editors, document)
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying document store.
func (m *Manager) Store() ports.DocumentStore {
	return m.store
}

// editor returns the cached editor, creating and starting it when missing.
// loaded reports whether the editor was loaded by this call.
func (m *Manager) editor(ctx context.Context, document string) (e *editor.Editor, loaded bool, err error) {
	m.mu.Lock()
	e, ok := m.editors[document]
	m.mu.Unlock()
	if ok {
		return e, false, nil
	}

	opts := append([]editor.Option{
		editor.WithLogger(m.logger),
	}, m.editorOpts...)
	for _, fn := range m.docOpts {
		opts = append(opts, fn(document)...)
	}
	opts = append(opts, editor.WithDocument(document), editor.WithStore(m.store))
	e = editor.New(opts...)
	if err := e.Start(ctx); err != nil {
		return nil, false, fmt.Errorf("load document %q: %w", document, err)
	}

	m.mu.Lock()
	m.editors[document] = e
	m.mu.Unlock()
	return e, true, nil
}

func (m *Manager) withDocumentLock(ctx context.Context, document string, fn func(context.Context) error) error {
	entry := m.acquire(document)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(document)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, document, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"document", document,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
