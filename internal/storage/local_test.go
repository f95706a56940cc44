package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *LocalBackend {
	t.Helper()
	b, err := NewLocalBackend(Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	return b
}

func TestLocalBackend_PutWritesUnderBasePath(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	handle, err := b.Put(ctx, strings.NewReader("evidence bytes"), "application/pdf", "policy.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, handle)

	data, err := os.ReadFile(filepath.Join(b.basePath, filepath.FromSlash(handle)))
	require.NoError(t, err)
	assert.Equal(t, "evidence bytes", string(data))
}

func TestLocalBackend_PutTraversalNameStaysInside(t *testing.T) {
	b := newTestBackend(t)

	handle, err := b.Put(context.Background(), strings.NewReader("x"), "application/pdf", "../../escape.pdf")
	require.NoError(t, err)

	full, err := filepath.Abs(filepath.Join(b.basePath, filepath.FromSlash(handle)))
	require.NoError(t, err)
	base, err := filepath.Abs(b.basePath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, base+string(filepath.Separator)), "file %q escaped base %q", full, base)
}

func TestLocalBackend_SignedURL(t *testing.T) {
	ctx := context.Background()

	b := newTestBackend(t)
	url, err := b.SignedURL(ctx, "docs/2026/08/abc.pdf", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "/files/docs/2026/08/abc.pdf", url)

	withBase, err := NewLocalBackend(Config{BasePath: t.TempDir(), BaseURL: "https://cdn.example.com"})
	require.NoError(t, err)
	url, err = withBase.SignedURL(ctx, "docs/2026/08/abc.pdf", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/docs/2026/08/abc.pdf", url)
}

func TestLocalBackend_DeleteIsIdempotent(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	handle, err := b.Put(ctx, strings.NewReader("x"), "application/pdf", "policy.pdf")
	require.NoError(t, err)

	require.NoError(t, b.Delete(ctx, handle))
	require.NoError(t, b.Delete(ctx, handle), "second delete of the same handle must succeed")
	require.NoError(t, b.Delete(ctx, "docs/2026/01/never-existed.pdf"))
}
