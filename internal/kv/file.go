package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/rexyz/internal/fsops"
)

// FileStorage implements Storage with one file per key.
type FileStorage struct {
	fs     fsops.FS
	dir    string
	closed bool
}

// NewFileStorage creates a FileStorage rooted at dir.
func NewFileStorage(fs fsops.FS, dir string) *FileStorage {
	return &FileStorage{
		fs:  fs,
		dir: dir,
	}
}

func (s *FileStorage) path(key string) (string, error) {
	if err := s.fs.ValidateIdentifier(key); err != nil {
		return "", fmt.Errorf("invalid key %q: %w", key, err)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get reads the file of key.
func (s *FileStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if s.closed {
		return "", false, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return string(data), true, nil
}

// Set writes the file of key atomically.
func (s *FileStorage) Set(ctx context.Context, key, value string) error {
	if s.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := s.fs.AtomicWrite(path, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

// Delete removes the file of key.
func (s *FileStorage) Delete(ctx context.Context, key string) error {
	if s.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

// Close marks the storage closed. Files need no release.
func (s *FileStorage) Close() error {
	s.closed = true
	return nil
}
