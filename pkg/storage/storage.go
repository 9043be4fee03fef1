// Package storage is the filesystem abstraction product images are written
// to. Two drivers are available:
//   - "local"  local filesystem under STORAGE_LOCAL_ROOT (default "public")
//   - "s3"     S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	disks, _ := storage.FromConfig(ctx)
//	disk := disks.Default()
//	_ = disk.Put(ctx, "uploads/image-1.png", r, "image/png")
//	url := disk.URL("uploads/image-1.png") // "/uploads/image-1.png"
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sadekstore/storefront/config"
	"github.com/sadekstore/storefront/pkg/logger"
)

// Disk is the driver interface every storage backend implements.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}

// Manager holds the configured disks and the name of the default one.
type Manager struct {
	mu    sync.RWMutex
	disks map[string]Disk
	def   string
}

// NewManager returns a Manager whose default disk is def.
func NewManager(def string) *Manager {
	return &Manager{disks: map[string]Disk{}, def: def}
}

// FromConfig boots the local disk always and the s3 disk when S3_BUCKET is
// set. A misconfigured s3 disk is logged and left out; if it was the
// default, the local disk takes over.
func FromConfig(ctx context.Context) *Manager {
	m := NewManager(config.StorageDefault())
	m.Register("local", NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))

	if config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
		if err != nil {
			logger.Component("storage").Warn("s3 disk disabled", "error", err)
		} else {
			m.Register("s3", d)
		}
	}

	if _, ok := m.Disk(m.def); !ok {
		logger.Component("storage").Warn("default disk not configured, using local", "disk", m.def)
		m.def = "local"
	}
	return m
}

// Register plugs a Disk in under name.
func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	m.disks[name] = d
	m.mu.Unlock()
}

// Disk returns the named disk.
func (m *Manager) Disk(name string) (Disk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.disks[name]
	return d, ok
}

// Default returns the default disk. It panics if the default was never
// registered, which is a boot-time wiring bug.
func (m *Manager) Default() Disk {
	d, ok := m.Disk(m.def)
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", m.def))
	}
	return d
}

// PathFromURL maps a public URL produced by disk.URL back to its path. ok is
// false for URLs that point elsewhere (external image links).
func PathFromURL(disk Disk, url string) (string, bool) {
	base := strings.TrimSuffix(disk.URL(""), "/")
	prefix := base + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	path := strings.TrimPrefix(url, prefix)
	if path == "" || strings.Contains(path, "..") {
		return "", false
	}
	return path, true
}
