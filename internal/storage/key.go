package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxSlugLen = 40

// safeExtensions are the only extensions carried through to the physical
// key; anything else is dropped so a caller-supplied name can never pick
// the stored extension arbitrarily.
var safeExtensions = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
	".webp": true, ".doc": true, ".docx": true,
}

// NewObjectKey generates a collision-resistant physical key for an upload.
// The caller-supplied name contributes only a sanitized slug; the key
// itself is a UUID under a date prefix, so path traversal or overwriting
// an existing object via the filename is impossible.
func NewObjectKey(suggestedName string) string {
	now := time.Now().UTC()
	ext := strings.ToLower(path.Ext(suggestedName))
	if !safeExtensions[ext] {
		ext = ""
	}
	slug := sanitizeSlug(strings.TrimSuffix(path.Base(suggestedName), path.Ext(suggestedName)))
	if slug != "" {
		slug = "_" + slug
	}
	return fmt.Sprintf("docs/%04d/%02d/%s%s%s", now.Year(), now.Month(), uuid.New(), slug, ext)
}

// sanitizeSlug keeps lowercase alphanumerics and dashes, collapsing
// everything else to a single dash and capping the length.
func sanitizeSlug(name string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
