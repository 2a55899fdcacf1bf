package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore implementation
// adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	doc := "contract-test-doc-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		err := store.Set(ctx, doc, KeyCurrentState, `"validating"`)
		require.NoError(t, err, "Set should not return error")

		got, err := store.Get(ctx, doc, KeyCurrentState)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, `"validating"`, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, doc, KeyUISectionExpanded, "true"))
		require.NoError(t, store.Set(ctx, doc, KeyUISectionExpanded, "false"))

		got, err := store.Get(ctx, doc, KeyUISectionExpanded)
		require.NoError(t, err)
		assert.Equal(t, "false", got)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, doc, "never-written")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.Get(ctx, "non-existent-"+doc, KeyStateMachine)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Documents are isolated", func(t *testing.T) {
		other := doc + "-other"
		defer func() { _ = store.Delete(ctx, other) }()

		require.NoError(t, store.Set(ctx, other, KeyCurrentState, `"x"`))

		got, err := store.Get(ctx, doc, KeyCurrentState)
		require.NoError(t, err)
		assert.Equal(t, `"validating"`, got)
	})

	t.Run("List", func(t *testing.T) {
		id1 := doc + "-1"
		id2 := doc + "-2"
		_ = store.Set(ctx, id1, KeyNodeBindings, "[]")
		_ = store.Set(ctx, id2, KeyNodeBindings, "[]")

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		docs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, docs, id1)
		assert.Contains(t, docs, id2)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, doc)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Get(ctx, doc, KeyCurrentState)
		assert.ErrorIs(t, err, ErrNotFound, "Get after Delete should return ErrNotFound")

		docs, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, docs, doc)
	})
}
