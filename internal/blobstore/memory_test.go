package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreListEmptyContainer(t *testing.T) {
	s := NewMemoryStore()

	names, err := s.List(context.Background(), "uploads")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStorePutAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "uploads", "b.txt", []byte("two")))
	require.NoError(t, s.Put(ctx, "uploads", "a.txt", []byte("one")))

	names, err := s.List(ctx, "uploads")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)
}

func TestMemoryStorePutOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "uploads", "a.txt", []byte("one")))
	require.NoError(t, s.Put(ctx, "uploads", "a.txt", []byte("two")))

	data, ok := s.Get(ctx, "uploads", "a.txt")
	require.True(t, ok)
	assert.Equal(t, []byte("two"), data)

	names, err := s.List(ctx, "uploads")
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "uploads", "a.txt", []byte("one")))
	require.NoError(t, s.Delete(ctx, "uploads", "a.txt"))

	assert.ErrorIs(t, s.Delete(ctx, "uploads", "a.txt"), ErrBlobNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "missing", "a.txt"), ErrBlobNotFound)
}

func TestMemoryStoreRejectsEmptyName(t *testing.T) {
	s := NewMemoryStore()
	assert.Error(t, s.Put(context.Background(), "uploads", "", []byte("x")))
}
