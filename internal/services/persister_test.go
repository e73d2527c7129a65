package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mboiraai/rork-automarketconnect/internal/storage"
)

func TestQueuedPersisterWritesLatestValue(t *testing.T) {
	kv, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	p := NewQueuedPersister(kv, slog.Default())

	// Rapid successive writes to the same key; the last one must land.
	p.Enqueue(storage.KeyFavorites, []byte(`["a"]`))
	p.Enqueue(storage.KeyFavorites, []byte(`["a","b"]`))
	p.Enqueue(storage.KeyUserListings, []byte(`[]`))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))

	favs, err := kv.Get(context.Background(), storage.KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(favs))

	owned, err := kv.Get(context.Background(), storage.KeyUserListings)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(owned))
}

func TestQueuedPersisterStopIsIdempotent(t *testing.T) {
	kv, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	p := NewQueuedPersister(kv, slog.Default())

	ctx := context.Background()
	require.NoError(t, p.Stop(ctx))
	require.NoError(t, p.Stop(ctx))

	// Writes after Stop are dropped without panicking.
	p.Enqueue(storage.KeyFavorites, []byte(`["late"]`))
	_, err = kv.Get(ctx, storage.KeyFavorites)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}
