package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/sadekstore/storefront/pkg/logger"
	"github.com/sadekstore/storefront/pkg/metrics"
	"github.com/sadekstore/storefront/pkg/storage"
	"github.com/sadekstore/storefront/pkg/workerpool"
)

// UploadDir is the disk directory uploaded images are written to.
const UploadDir = "uploads"

// allowedImages maps accepted MIME types to the extension files are saved with.
var allowedImages = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UploadService struct {
	disk     storage.Disk
	pool     *workerpool.Pool
	maxBytes int64
}

// NewUploadService stores images on disk. pool runs background deletes and
// may be nil, in which case deletes run inline.
func NewUploadService(disk storage.Disk, pool *workerpool.Pool, maxBytes int64) *UploadService {
	return &UploadService{disk: disk, pool: pool, maxBytes: maxBytes}
}

// MaxBytes is the largest accepted image.
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// Store sniffs the content type of r, rejects anything that is not an
// allowed image and writes it under a fresh name. It returns the public URL.
func (s *UploadService) Store(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		metrics.Uploads.WithLabelValues("failed").Inc()
		return "", err
	}
	if int64(len(data)) > s.maxBytes {
		metrics.Uploads.WithLabelValues("rejected").Inc()
		return "", fail(ErrTooLarge, "File too large")
	}

	mime := mimetype.Detect(data)
	ext, ok := allowedImages[mime.String()]
	if !ok {
		metrics.Uploads.WithLabelValues("rejected").Inc()
		return "", fail(ErrUnsupportedMedia, fmt.Sprintf("File type not allowed: %s", mime.String()))
	}

	path := fmt.Sprintf("%s/image-%s%s", UploadDir, uuid.NewString(), ext)
	if err := s.disk.Put(ctx, path, bytes.NewReader(data), mime.String()); err != nil {
		metrics.Uploads.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("store upload: %w", err)
	}

	metrics.Uploads.WithLabelValues("stored").Inc()
	logger.WithCtx(ctx).Info("image uploaded", "path", path, "type", mime.String(), "bytes", len(data))
	return s.disk.URL(path), nil
}

// RemoveImages deletes the uploads behind urls. Links to other hosts and
// paths outside the upload directory are skipped.
func (s *UploadService) RemoveImages(ctx context.Context, urls []string) {
	log := logger.WithCtx(ctx)
	ctx = context.WithoutCancel(ctx)

	for _, url := range urls {
		path, ok := storage.PathFromURL(s.disk, url)
		if !ok || !strings.HasPrefix(path, UploadDir+"/") {
			continue
		}

		remove := func() {
			if err := s.disk.Delete(ctx, path); err != nil {
				log.Warn("image cleanup failed", "path", path, "error", err)
			}
		}

		if s.pool == nil {
			remove()
			continue
		}
		if err := s.pool.Submit(remove); err != nil {
			log.Debug("cleanup pool busy, deleting inline", "error", err)
			remove()
		}
	}
}
