package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, fs.Set(ctx, KeyFavorites, []byte(`["1","2"]`)))
	data, err := fs.Get(ctx, KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, `["1","2"]`, string(data))

	// Overwrite replaces the value wholesale.
	require.NoError(t, fs.Set(ctx, KeyFavorites, []byte(`[]`)))
	data, err = fs.Get(ctx, KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestFileStoreMissingKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Get(context.Background(), KeyUserListings)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStoreRejectsUnsafeKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = fs.Get(ctx, "../escape")
	assert.Error(t, err)
	assert.Error(t, fs.Set(ctx, "bad/key", nil))
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Set(context.Background(), KeyFavorites, []byte(`[]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KeyFavorites+".json", entries[0].Name())
}
