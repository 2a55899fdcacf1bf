package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/protostate/pkg/adapters/memory"
	"github.com/aretw0/protostate/pkg/editor"
	"github.com/aretw0/protostate/pkg/ports"
	"github.com/aretw0/protostate/pkg/protocol"
	"github.com/aretw0/protostate/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Set(ctx context.Context, document, key, value string) error {
	time.Sleep(time.Millisecond) // Simulate IO
	return s.Store.Set(ctx, document, key, value)
}

func TestManager_OpenCachesEditor(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(memory.NewStore())

	a, err := mgr.Open(ctx, "doc")
	require.NoError(t, err)
	b, err := mgr.Open(ctx, "doc")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, "doc", a.Document())

	mgr.Close("doc")
	c, err := mgr.Open(ctx, "doc")
	require.NoError(t, err)
	assert.NotSame(t, a, c)
}

type inbox struct {
	document string
	sent     *[]string
}

func (i inbox) Send(_ context.Context, msg protocol.Message) error {
	*i.sent = append(*i.sent, i.document+":"+msg.Type)
	return nil
}

func TestManager_DocumentEditorOptions(t *testing.T) {
	ctx := context.Background()
	var sent []string
	mgr := session.NewManager(memory.NewStore(),
		session.WithDocumentEditorOptions(func(document string) []editor.Option {
			return []editor.Option{editor.WithMessenger(inbox{document: document, sent: &sent})}
		}))

	_, err := mgr.Open(ctx, "a")
	require.NoError(t, err)
	_, err = mgr.Open(ctx, "a")
	require.NoError(t, err)
	_, err = mgr.Open(ctx, "b")
	require.NoError(t, err)

	// Each editor announces itself once, when it starts.
	assert.Equal(t, []string{"a:UI_READY", "b:UI_READY"}, sent)
}

func TestManager_ConcurrentMutations(t *testing.T) {
	store := SlowStore{memory.NewStore()}
	mgr := session.NewManager(store)
	ctx := context.Background()
	doc := "race-test"

	var wg sync.WaitGroup
	writers := 10
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(val int) {
			defer wg.Done()
			err := mgr.WithLock(ctx, doc, func(ctx context.Context, e *editor.Editor) error {
				return e.SaveState(ctx, "", fmt.Sprintf("s%d", val), "")
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Every mutation composed on the latest snapshot, so a fresh load sees all of them.
	mgr.Close(doc)
	e, err := mgr.Open(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 4+writers, e.Snapshot().Machine.Len())
}

func TestManager_Delete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mgr := session.NewManager(store)

	require.NoError(t, mgr.WithLock(ctx, "doc", func(ctx context.Context, e *editor.Editor) error {
		e.SetSectionExpanded(ctx, false)
		return nil
	}))
	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, ids)

	require.NoError(t, mgr.Delete(ctx, "doc"))

	_, err = store.Get(ctx, "doc", ports.KeyUISectionExpanded)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	e, err := mgr.Open(ctx, "doc")
	require.NoError(t, err)
	assert.True(t, e.Snapshot().SectionExpanded)
}

// localLocker is a DistributedLocker backed by one mutex per key, shared by managers.
type localLocker struct {
	mu    sync.Mutex
	keys  map[string]*sync.Mutex
	calls int
	err   error
}

func (l *localLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	if l.err != nil {
		l.mu.Unlock()
		return nil, l.err
	}
	if l.keys == nil {
		l.keys = make(map[string]*sync.Mutex)
	}
	km, ok := l.keys[key]
	if !ok {
		km = &sync.Mutex{}
		l.keys[key] = km
	}
	l.calls++
	l.mu.Unlock()

	km.Lock()
	return func(context.Context) error {
		km.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLockRefreshesReplicas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	locker := &localLocker{}
	replicaA := session.NewManager(store, session.WithLocker(locker))
	replicaB := session.NewManager(store, session.WithLocker(locker))

	// Both replicas hold a cached editor before either writes.
	_, err := replicaA.Open(ctx, "doc")
	require.NoError(t, err)
	_, err = replicaB.Open(ctx, "doc")
	require.NoError(t, err)

	require.NoError(t, replicaA.WithLock(ctx, "doc", func(ctx context.Context, e *editor.Editor) error {
		return e.SaveState(ctx, "", "fromA", "")
	}))
	require.NoError(t, replicaB.WithLock(ctx, "doc", func(ctx context.Context, e *editor.Editor) error {
		return e.SaveState(ctx, "", "fromB", "")
	}))

	e, err := replicaB.Open(ctx, "doc")
	require.NoError(t, err)
	m := e.Snapshot().Machine
	assert.True(t, m.Has("fromA"), "replica B reloaded before mutating")
	assert.True(t, m.Has("fromB"))
	assert.Equal(t, 5, locker.calls)
}

func TestManager_DistributedLockFailure(t *testing.T) {
	boom := errors.New("redis down")
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(&localLocker{err: boom}))

	called := false
	err := mgr.WithLock(context.Background(), "doc", func(context.Context, *editor.Editor) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}
