package lifecycle

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/clubsure/platform/internal/domain"
)

// Config holds the upload validation rules. AllowedTypes maps a file
// extension to the single MIME type it may declare; the 1:1 mapping is
// what catches a spoofed name like policy.pdf.exe before any bytes are
// written.
type Config struct {
	MaxFileSizeBytes int64
	AllowedTypes     map[string]string
	StorageTimeout   time.Duration
}

// DefaultConfig returns the built-in upload rules.
func DefaultConfig() Config {
	return Config{
		MaxFileSizeBytes: 10 * 1024 * 1024,
		AllowedTypes: map[string]string{
			".pdf":  "application/pdf",
			".png":  "image/png",
			".jpg":  "image/jpeg",
			".jpeg": "image/jpeg",
			".webp": "image/webp",
			".doc":  "application/msword",
			".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		StorageTimeout: 15 * time.Second,
	}
}

// ValidateUpload checks an upload against the rules. It runs before the
// storage backend is ever called.
func (c Config) ValidateUpload(params IngestParams, now time.Time) error {
	if err := domain.ValidateDocumentType(params.Type); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateFileSize(params.SizeBytes, c.MaxFileSizeBytes); err != nil {
		return domain.ErrValidation(err.Error())
	}

	ext := strings.ToLower(path.Ext(params.OriginalFilename))
	wantMime, ok := c.AllowedTypes[ext]
	if !ok {
		return domain.ErrValidation(fmt.Sprintf("file extension %q is not allowed", ext))
	}
	if !strings.EqualFold(params.ContentType, wantMime) {
		return domain.ErrValidation(fmt.Sprintf("content type %q does not match extension %q", params.ContentType, ext))
	}

	if err := domain.ValidateExpiryDate(now, params.ExpiryDate); err != nil {
		return domain.ErrValidation(err.Error())
	}
	return nil
}
