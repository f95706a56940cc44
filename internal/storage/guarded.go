package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/clubsure/platform/internal/guard"
)

const breakerKey = "storage"

// GuardedBackend wraps a Backend with a circuit breaker. When the
// backend keeps failing, calls are rejected immediately instead of each
// one waiting out the storage timeout.
type GuardedBackend struct {
	inner   Backend
	breaker *guard.CircuitBreaker
}

// WithBreaker wraps a backend with the given circuit breaker.
func WithBreaker(inner Backend, breaker *guard.CircuitBreaker) *GuardedBackend {
	return &GuardedBackend{inner: inner, breaker: breaker}
}

func (g *GuardedBackend) Put(ctx context.Context, r io.Reader, contentType, suggestedName string) (string, error) {
	if res := g.breaker.Check(ctx, breakerKey); !res.Allowed {
		return "", errors.New(res.Reason)
	}
	handle, err := g.inner.Put(ctx, r, contentType, suggestedName)
	g.record(err)
	return handle, err
}

func (g *GuardedBackend) SignedURL(ctx context.Context, handle string, expiry time.Duration) (string, error) {
	if res := g.breaker.Check(ctx, breakerKey); !res.Allowed {
		return "", errors.New(res.Reason)
	}
	url, err := g.inner.SignedURL(ctx, handle, expiry)
	g.record(err)
	return url, err
}

func (g *GuardedBackend) Delete(ctx context.Context, handle string) error {
	if res := g.breaker.Check(ctx, breakerKey); !res.Allowed {
		return errors.New(res.Reason)
	}
	err := g.inner.Delete(ctx, handle)
	g.record(err)
	return err
}

func (g *GuardedBackend) record(err error) {
	if err != nil {
		g.breaker.RecordFailure(breakerKey)
		return
	}
	g.breaker.RecordSuccess(breakerKey)
}
