package imagestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes images below a directory that the HTTP server serves
// statically.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates dir if needed. baseURL is the public prefix the
// directory is served under, e.g. "http://localhost:3000/uploads".
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to move file: %w", err)
	}
	return s.PublicURL(key), nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStore) PublicURL(key string) string {
	return joinURL(s.baseURL, key)
}
