package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalBackend stores files under a base directory on the local
// filesystem. Intended for development and single-node deployments.
type LocalBackend struct {
	basePath string
	baseURL  string
}

// NewLocalBackend creates the base directory if needed.
func NewLocalBackend(cfg Config) (*LocalBackend, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "./uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalBackend{basePath: basePath, baseURL: cfg.BaseURL}, nil
}

func (b *LocalBackend) Put(ctx context.Context, r io.Reader, contentType, suggestedName string) (string, error) {
	key := NewObjectKey(suggestedName)
	fullPath := filepath.Join(b.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("close file: %w", err)
	}

	return key, nil
}

// SignedURL returns a stable path; the local backend has no real URL
// signing and the expiry is ignored.
func (b *LocalBackend) SignedURL(ctx context.Context, handle string, expiry time.Duration) (string, error) {
	if b.baseURL == "" {
		return "/files/" + handle, nil
	}
	return b.baseURL + "/" + handle, nil
}

// Delete removes the file. A missing handle is not an error.
func (b *LocalBackend) Delete(ctx context.Context, handle string) error {
	fullPath := filepath.Join(b.basePath, filepath.FromSlash(handle))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
