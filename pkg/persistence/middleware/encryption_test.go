package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/aretw0/clickpath/pkg/adapters/memory"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/persistence/middleware"
	"github.com/aretw0/clickpath/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	require.NoError(t, secure.Set(ctx, domain.KeyCustomColors, []byte(`{"primary":"#123456"}`)))

	stored, err := underlying.Get(ctx, domain.KeyCustomColors)
	require.NoError(t, err)
	assert.NotContains(t, string(stored), "#123456")
	assert.Contains(t, string(stored), "__encrypted__")

	plain, err := secure.Get(ctx, domain.KeyCustomColors)
	require.NoError(t, err)
	assert.JSONEq(t, `{"primary":"#123456"}`, string(plain))
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, secureOld.Set(ctx, domain.KeyTheme, []byte(`"dark"`)))

	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	got, err := secureNew.Get(ctx, domain.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, `"dark"`, string(got))

	// Re-saved with the new key, the old middleware can no longer read it
	require.NoError(t, secureNew.Set(ctx, domain.KeyTheme, []byte(`"light"`)))
	_, err = secureOld.Get(ctx, domain.KeyTheme)
	assert.Error(t, err)
}

func TestEncryptionMiddleware_RejectsPlainValues(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Set(ctx, domain.KeyTheme, []byte(`"dark"`)))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Get(ctx, domain.KeyTheme)
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)

	_, err = secure.Get(ctx, "absent")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
	_, err = middleware.ParseKey("%%%")
	assert.Error(t, err)
}
