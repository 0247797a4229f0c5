package blob

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Filesystem stores documents under a local directory.
type Filesystem struct {
	root string
}

// NewFilesystem returns a filesystem store rooted at dir, creating it if
// needed.
func NewFilesystem(dir string) (*Filesystem, error) {
	if dir == "" {
		dir = "./output"
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", abs, err)
	}
	return &Filesystem{root: abs}, nil
}

func (f *Filesystem) Driver() Driver { return DriverFilesystem }

// Root returns the absolute root directory.
func (f *Filesystem) Root() string { return f.root }

func (f *Filesystem) pathFor(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.root, filepath.FromSlash(k)), nil
}

// Put writes data through a temp file and renames it into place.
func (f *Filesystem) Put(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst, err := f.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(dst)}
	return u.String(), nil
}

// Get reads the file stored under key.
func (f *Filesystem) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := f.pathFor(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}
