package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/tarot-studio/internal/adapters/kv/memory"
	"github.com/randomtoy/tarot-studio/internal/domain"
)

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(0)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "tarot_a", []byte("1")))
	require.NoError(t, s.Set(ctx, "other", []byte("2")))

	v, ok, err := s.Get(ctx, "tarot_a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	keys, err := s.Keys(ctx, "tarot_")
	require.NoError(t, err)
	assert.Equal(t, []string{"tarot_a"}, keys)

	require.NoError(t, s.Delete(ctx, "tarot_a"))
	_, ok, _ = s.Get(ctx, "tarot_a")
	assert.False(t, ok)
}

func TestStore_Quota(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(10)

	require.NoError(t, s.Set(ctx, "a", []byte("12345")))
	// Overwriting the same key only counts the new value.
	require.NoError(t, s.Set(ctx, "a", []byte("1234567890")))

	err := s.Set(ctx, "b", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.ErrorIs(t, err, domain.ErrStorage)
}
