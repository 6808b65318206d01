package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/penguin/core/internal/ports"
)

// FileKV stores each record as one file under a directory. Backed by afero so
// tests can run against an in-memory filesystem.
type FileKV struct {
	fs  afero.Fs
	dir string
}

// NewFileKV creates a file-backed KV rooted at dir on the OS filesystem.
func NewFileKV(dir string) (*FileKV, error) {
	return NewFileKVWithFs(afero.NewOsFs(), dir)
}

// NewFileKVWithFs creates a file-backed KV on the given filesystem.
func NewFileKVWithFs(fs afero.Fs, dir string) (*FileKV, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &FileKV{fs: fs, dir: dir}, nil
}

func (kv *FileKV) path(key string) string {
	return filepath.Join(kv.dir, key+".json")
}

// Get implements ports.KV.
func (kv *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := afero.ReadFile(kv.fs, kv.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements ports.KV.
func (kv *FileKV) Set(_ context.Context, key string, value []byte) error {
	if err := afero.WriteFile(kv.fs, kv.path(key), value, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete implements ports.KV.
func (kv *FileKV) Delete(_ context.Context, key string) error {
	err := kv.fs.Remove(kv.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close implements ports.KV.
func (kv *FileKV) Close() error { return nil }

var _ ports.KV = (*FileKV)(nil)
