package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadekstore/storefront/pkg/storage"
)

func TestLocalDisk_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	disk := storage.NewLocalDisk(t.TempDir(), "/")

	require.NoError(t, disk.Put(ctx, "uploads/image-1.png", strings.NewReader("png-bytes"), "image/png"))
	assert.True(t, disk.Exists(ctx, "uploads/image-1.png"))

	data, err := disk.Get(ctx, "uploads/image-1.png")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, disk.Delete(ctx, "uploads/image-1.png"))
	assert.False(t, disk.Exists(ctx, "uploads/image-1.png"))

	// deleting twice is fine
	assert.NoError(t, disk.Delete(ctx, "uploads/image-1.png"))
}

func TestLocalDisk_StaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk := storage.NewLocalDisk(root, "/")

	require.NoError(t, disk.Put(ctx, "../../escape.txt", strings.NewReader("x"), ""))
	assert.True(t, disk.Exists(ctx, "escape.txt"))
}

func TestLocalDisk_URL(t *testing.T) {
	assert.Equal(t, "/uploads/a.png", storage.NewLocalDisk(t.TempDir(), "/").URL("uploads/a.png"))
	assert.Equal(t, "https://cdn.example/uploads/a.png", storage.NewLocalDisk(t.TempDir(), "https://cdn.example/").URL("/uploads/a.png"))
}

func TestPathFromURL(t *testing.T) {
	disk := storage.NewLocalDisk(t.TempDir(), "/")

	path, ok := storage.PathFromURL(disk, "/uploads/image-abc.jpg")
	assert.True(t, ok)
	assert.Equal(t, "uploads/image-abc.jpg", path)

	_, ok = storage.PathFromURL(disk, "https://github.com/logo.jpg")
	assert.False(t, ok)

	_, ok = storage.PathFromURL(disk, "/uploads/../data/data.json")
	assert.False(t, ok)
}

func TestManager_DefaultAndLookup(t *testing.T) {
	m := storage.NewManager("local")
	local := storage.NewLocalDisk(t.TempDir(), "/")
	m.Register("local", local)

	assert.Same(t, local, m.Default())
	_, ok := m.Disk("s3")
	assert.False(t, ok)
}
