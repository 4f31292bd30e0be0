package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore stores images as files under a directory on local disk
type LocalStore struct {
	dir     string
	allowed []string
}

// NewLocalStore creates a LocalStore rooted at dir. The directory is
// created if absent; calling this repeatedly is safe.
func NewLocalStore(dir string, allowedExtensions []string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, allowed: allowedExtensions}, nil
}

// Save writes the upload to disk under a generated key and returns the key
func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := checkExtension(filename, s.allowed); err != nil {
		return "", err
	}

	key := generateKey(filename)

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return key, nil
}

// Delete removes a stored image. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	// Keys are generated by Save, but never trust them as paths
	key = filepath.Base(key)

	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
