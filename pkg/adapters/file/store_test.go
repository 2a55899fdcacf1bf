package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/protostate/pkg/adapters/file"
	"github.com/aretw0/protostate/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunDocumentStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "doc", ports.KeyCurrentState, `"idle"`))

	data, err := os.ReadFile(filepath.Join(dir, "doc", "currentState.json"))
	require.NoError(t, err)
	assert.Equal(t, `"idle"`, string(data))

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "doc"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, doc := range []string{"", "..", "a/b", `a\b`} {
		err := store.Set(ctx, doc, ports.KeyCurrentState, `"x"`)
		assert.ErrorIs(t, err, file.ErrInvalidName, doc)
	}
}

func TestFileStore_ListMissingBase(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))
	docs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
