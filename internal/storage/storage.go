package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Backend stores document evidence bytes. Implementations hold no business
// rules; validation happens before Put is ever called.
type Backend interface {
	// Put writes the bytes and returns an opaque storage handle. The
	// physical key is generated server-side; the suggested name only
	// contributes a sanitized slug. A failed Put leaves nothing to clean
	// up that a retry could collide with.
	Put(ctx context.Context, r io.Reader, contentType, suggestedName string) (string, error)

	// SignedURL returns a retrieval URL for the handle. Remote backends
	// return a time-limited signed URL; the local backend returns a
	// stable path and ignores the expiry.
	SignedURL(ctx context.Context, handle string, expiry time.Duration) (string, error)

	// Delete removes the bytes. Deleting a nonexistent handle is not an
	// error.
	Delete(ctx context.Context, handle string) error
}

// Config selects and configures a backend.
type Config struct {
	Type     string // local, s3
	BasePath string // local: directory for stored files
	BaseURL  string // local: public URL prefix
	Bucket   string // s3
	Region   string // s3
	Endpoint string // s3: custom endpoint (MinIO, R2)
	AccessKey string
	SecretKey string
}

// New builds the backend chosen by configuration. The choice is made once
// at process startup, never per call.
func New(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Type {
	case "local":
		return NewLocalBackend(cfg)
	case "s3":
		return NewS3Backend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
