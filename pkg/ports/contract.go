package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a Store implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		err := store.Set(ctx, key, []byte(`{"status":"completed"}`))
		require.NoError(t, err, "Set should not return error")

		got, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.JSONEq(t, `{"status":"completed"}`, string(got))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte(`"first"`)))
		require.NoError(t, store.Set(ctx, key, []byte(`"second"`)))

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `"second"`, string(got))
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("List by prefix", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, domain.CompletionKey("a-"+key), []byte(`{}`)))
		require.NoError(t, store.Set(ctx, domain.CompletionKey("b-"+key), []byte(`{}`)))
		require.NoError(t, store.Set(ctx, domain.KeyCachedTours, []byte(`[]`)))

		keys, err := store.List(ctx, domain.KeyCompletedPrefix)
		require.NoError(t, err)
		assert.Contains(t, keys, domain.CompletionKey("a-"+key))
		assert.Contains(t, keys, domain.CompletionKey("b-"+key))
		assert.NotContains(t, keys, domain.KeyCachedTours)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte(`1`)))
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)

		// Deleting twice is fine
		assert.NoError(t, store.Delete(ctx, key))
	})
}
