package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_CreateAndValidate(t *testing.T) {
	store := NewInMemoryStore(time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	ok, err := store.Validate(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Validate(ctx, "unknown-token")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Validate(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryStore_TokensAreUnique(t *testing.T) {
	store := NewInMemoryStore(time.Minute)
	ctx := context.Background()

	a, err := store.Create(ctx)
	require.NoError(t, err)
	b, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestInMemoryStore_ExpiredTokenIsInvalid(t *testing.T) {
	store := NewInMemoryStore(-time.Second)
	ctx := context.Background()

	token, err := store.Create(ctx)
	require.NoError(t, err)

	ok, err := store.Validate(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryStore_Delete(t *testing.T) {
	store := NewInMemoryStore(time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, token))

	ok, err := store.Validate(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}
