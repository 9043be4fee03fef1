package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps the document as one indented JSON file. Saves go through a
// temp file in the same directory followed by a rename, so readers see either
// the old or the new document and never a partial write.
type FileStore[T any] struct {
	path string
}

// NewFileStore returns a FileStore at path, creating parent directories.
func NewFileStore[T any](path string) (*FileStore[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore[T]{path: path}, nil
}

// Path returns the file the document lives in.
func (s *FileStore[T]) Path() string { return s.path }

func (s *FileStore[T]) Load(_ context.Context) (*T, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrCorrupt, s.path)
	}

	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return &doc, nil
}

func (s *FileStore[T]) Save(_ context.Context, doc *T) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Quarantine renames the current file to <path>.corrupt-<unix>.
func (s *FileStore[T]) Quarantine(_ context.Context) (string, error) {
	dst := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
	if err := os.Rename(s.path, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (s *FileStore[T]) Close() error { return nil }
