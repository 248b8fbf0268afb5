package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]BlobStore {
	t.Helper()
	return map[string]BlobStore{
		"local":    NewLocalStore(t.TempDir()),
		"memory":   NewMemoryStore(),
		"prefixed": WithPrefix(NewMemoryStore(), "staging/v1"),
	}
}

func TestBlobStore_Lifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			data := []byte("sequence,family_accession\nMKV,PF00001.1\n")

			w, err := store.Create(ctx, "train.csv")
			require.NoError(t, err)
			n, err := w.Write(data)
			require.NoError(t, err)
			require.Equal(t, len(data), n)
			require.NoError(t, w.Sync())
			require.NoError(t, w.Close())

			b, err := store.Open(ctx, "train.csv")
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), b.Size())

			buf := make([]byte, 8)
			n, err = b.ReadAt(ctx, buf, 0)
			require.NoError(t, err)
			assert.Equal(t, "sequence", string(buf[:n]))

			rc, err := b.ReadRange(ctx, 9, 16)
			require.NoError(t, err)
			part, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			assert.Equal(t, "family_accession", string(part))

			rc, err = b.ReadRange(ctx, b.Size()+10, 4)
			require.NoError(t, err)
			part, err = io.ReadAll(rc)
			require.NoError(t, err)
			assert.Empty(t, part)
			require.NoError(t, b.Close())

			got, err := ReadAll(ctx, store, "train.csv")
			require.NoError(t, err)
			assert.Equal(t, data, got)

			require.NoError(t, store.Put(ctx, "dev.csv", []byte("x")))
			require.NoError(t, store.Put(ctx, "meta/label_mapping.txt", []byte("PF00001.1: 0\n")))

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"dev.csv", "meta/label_mapping.txt", "train.csv"}, names)

			names, err = store.List(ctx, "meta/")
			require.NoError(t, err)
			assert.Equal(t, []string{"meta/label_mapping.txt"}, names)

			require.NoError(t, store.Delete(ctx, "train.csv"))
			require.NoError(t, store.Delete(ctx, "train.csv"))

			_, err = store.Open(ctx, "train.csv")
			assert.ErrorIs(t, err, ErrNotFound)

			ok, err := Exists(ctx, store, "dev.csv")
			require.NoError(t, err)
			assert.True(t, ok)
			ok, err = Exists(ctx, store, "train.csv")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestBlobStore_EmptyBlob(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Put(ctx, "empty", nil))

			got, err := ReadAll(ctx, store, "empty")
			require.NoError(t, err)
			assert.Empty(t, got)

			b, err := store.Open(ctx, "empty")
			require.NoError(t, err)
			defer b.Close()
			_, err = b.ReadAt(ctx, make([]byte, 1), 0)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestLocalStore_CreateIsAtomic(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()

	w, err := store.Create(ctx, "nested/test.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "nested", "test.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names, "temp files must not be listed")

	require.NoError(t, w.Close())
	_, err = os.Stat(filepath.Join(dir, "nested", "test.csv"))
	require.NoError(t, err)
}

func TestLocalStore_MissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "does-not-exist"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_Mappable(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "blob", []byte("mapped")))

	b, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()

	m, ok := b.(Mappable)
	require.True(t, ok)
	data, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "mapped", string(data))
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, store := range map[string]BlobStore{
		"local":  NewLocalStore(t.TempDir()),
		"memory": NewMemoryStore(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := store.Open(ctx, "x")
			assert.ErrorIs(t, err, context.Canceled)
			err = store.Put(ctx, "x", []byte("y"))
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestMemoryStoreCreate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	w, err := store.Create(ctx, "train.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("a,b\n"))
	require.NoError(t, err)
	assert.Zero(t, store.Len(), "not visible before Close")

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("c"))
	assert.Error(t, err)

	data, err := ReadAll(ctx, store, "train.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestPrefixed(t *testing.T) {
	inner := NewMemoryStore()
	store := WithPrefix(inner, "/pfam/")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "CURRENT", []byte("MANIFEST-000001.json")))

	names, err := inner.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"pfam/CURRENT"}, names)

	assert.Same(t, inner, WithPrefix(inner, ""))
}
