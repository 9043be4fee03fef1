package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalDisk is the local-filesystem driver.
type LocalDisk struct {
	root    string // absolute root directory
	baseURL string // public URL prefix for URL()
}

// NewLocalDisk roots the disk at root (relative roots are resolved against
// the working directory). baseURL "/" produces site-relative URLs.
func NewLocalDisk(root, baseURL string) *LocalDisk {
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	return &LocalDisk{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Root returns the absolute directory files are written under.
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) abs(path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	full := filepath.Join(d.root, clean)
	if !strings.HasPrefix(full, d.root) {
		return "", fmt.Errorf("storage/local: path %q escapes root", path)
	}
	return full, nil
}

func (d *LocalDisk) Put(_ context.Context, path string, r io.Reader, _ string) error {
	full, err := d.abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full) //nolint:errcheck
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("storage/local: close %s: %w", path, err)
	}
	return nil
}

func (d *LocalDisk) Get(_ context.Context, path string) ([]byte, error) {
	full, err := d.abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("storage/local: get %s: %w", path, err)
	}
	return data, nil
}

func (d *LocalDisk) Exists(_ context.Context, path string) bool {
	full, err := d.abs(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func (d *LocalDisk) Delete(_ context.Context, path string) error {
	full, err := d.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *LocalDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}
