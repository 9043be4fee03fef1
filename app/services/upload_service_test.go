package services_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/storage"
	"github.com/sadekstore/storefront/pkg/workerpool"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestUpload_StoresAllowedImage(t *testing.T) {
	root := t.TempDir()
	disk := storage.NewLocalDisk(root, "/")
	svc := services.NewUploadService(disk, nil, 1<<20)

	url, err := svc.Store(context.Background(), bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/image-"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/"))))
	assert.NoError(t, err)
}

func TestUpload_RejectsUnsupportedType(t *testing.T) {
	svc := services.NewUploadService(storage.NewLocalDisk(t.TempDir(), "/"), nil, 1<<20)

	_, err := svc.Store(context.Background(), strings.NewReader("just some text"))
	assert.ErrorIs(t, err, services.ErrUnsupportedMedia)
	assert.Contains(t, err.Error(), "File type not allowed: text/plain")
}

func TestUpload_RejectsOversized(t *testing.T) {
	svc := services.NewUploadService(storage.NewLocalDisk(t.TempDir(), "/"), nil, 16)

	_, err := svc.Store(context.Background(), bytes.NewReader(append(pngHeader, make([]byte, 64)...)))
	assert.ErrorIs(t, err, services.ErrTooLarge)
}

func TestUpload_RemoveImagesOnlyTouchesUploads(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk := storage.NewLocalDisk(root, "/")
	pool := workerpool.New("cleanup-test", 2)
	svc := services.NewUploadService(disk, pool, 1<<20)

	url, err := svc.Store(ctx, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	require.NoError(t, disk.Put(ctx, "logo.png", bytes.NewReader(pngHeader), "image/png"))

	svc.RemoveImages(ctx, []string{url, "/logo.png", "https://example.com/x.png"})
	pool.Shutdown()

	path, ok := storage.PathFromURL(disk, url)
	require.True(t, ok)
	assert.False(t, disk.Exists(ctx, path))
	assert.True(t, disk.Exists(ctx, "logo.png"))
}
