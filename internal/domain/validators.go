package domain

import (
	"fmt"
	"time"
)

// ValidateDocumentType checks that t is a recognized document type.
func ValidateDocumentType(t DocumentType) error {
	for _, known := range AllDocumentTypes() {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("unknown document type: %s", t)
}

// ValidateExpiryDate checks that a declared expiry date, if present, is
// strictly after the upload time.
func ValidateExpiryDate(uploadedAt time.Time, expiry *time.Time) error {
	if expiry == nil {
		return nil
	}
	if !expiry.After(uploadedAt) {
		return fmt.Errorf("expiry date must be after upload time")
	}
	return nil
}

// ValidateFileSize checks the declared size against the configured maximum.
func ValidateFileSize(size, maxBytes int64) error {
	if size <= 0 {
		return fmt.Errorf("file is empty")
	}
	if size > maxBytes {
		return fmt.Errorf("file exceeds maximum size of %d bytes", maxBytes)
	}
	return nil
}
