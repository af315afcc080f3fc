package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	revoked, err := store.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "s1", time.Hour))
	revoked, _ = store.IsRevoked(ctx, "s1")
	assert.True(t, revoked)

	// Une session déjà expirée n'a pas besoin d'être mémorisée
	require.NoError(t, store.Revoke(ctx, "s2", -time.Second))
	revoked, _ = store.IsRevoked(ctx, "s2")
	assert.False(t, revoked)
}

func TestNewRedisSessionStore_InvalidURL(t *testing.T) {
	_, err := NewRedisSessionStore("not a redis url")
	assert.Error(t, err)
}
