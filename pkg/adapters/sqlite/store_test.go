package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/clickpath/pkg/adapters/sqlite"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, openStore(t, filepath.Join(t.TempDir(), "clickpath.db")))
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "clickpath.db")
	ctx := context.Background()

	first, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, domain.KeyTheme, []byte(`"dark"`)))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	got, err := second.Get(ctx, domain.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, `"dark"`, string(got))
}

func TestSQLiteStore_ListIsLiteral(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "clickpath.db"))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tour_completed_a", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "tourXcompletedXb", []byte(`{}`)))

	keys, err := store.List(ctx, "tour_completed_")
	require.NoError(t, err)
	assert.Equal(t, []string{"tour_completed_a"}, keys)
}
