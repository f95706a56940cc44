package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectKey_NeverTrustsCallerName(t *testing.T) {
	tests := []struct {
		name      string
		suggested string
	}{
		{"traversal", "../../etc/passwd"},
		{"absolute path", "/etc/shadow"},
		{"double extension", "policy.pdf.exe"},
		{"windows separators", `..\..\boot.ini`},
		{"null-ish garbage", "a\x00b.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewObjectKey(tt.suggested)
			assert.True(t, strings.HasPrefix(key, "docs/"), "key %q must stay under docs/", key)
			assert.NotContains(t, key, "..")
			assert.NotContains(t, key, `\`)
			assert.NotContains(t, key, "\x00")
		})
	}
}

func TestNewObjectKey_DropsUnknownExtensions(t *testing.T) {
	key := NewObjectKey("policy.pdf.exe")
	assert.False(t, strings.HasSuffix(key, ".exe"))

	key = NewObjectKey("insurance.pdf")
	assert.True(t, strings.HasSuffix(key, ".pdf"))
}

func TestNewObjectKey_UniquePerCall(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key := NewObjectKey("policy.pdf")
		require.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Safeguarding Policy 2026", "safeguarding-policy-2026"},
		{"../../etc/passwd", "etc-passwd"},
		{"___", ""},
		{"ALLCAPS", "allcaps"},
		{strings.Repeat("a", 100), strings.Repeat("a", maxSlugLen)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeSlug(tt.in), "input %q", tt.in)
	}
}
