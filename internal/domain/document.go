package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType categorizes a piece of compliance evidence.
type DocumentType string

const (
	DocSafeguardingPolicy  DocumentType = "safeguarding_policy"
	DocInsurance           DocumentType = "insurance"
	DocDBSCertificate      DocumentType = "dbs_certificate"
	DocRiskAssessment      DocumentType = "risk_assessment"
	DocStaffQualifications DocumentType = "staff_qualifications"
	DocHealthSafety        DocumentType = "health_safety"
	DocOther               DocumentType = "other"
)

// AllDocumentTypes returns every recognized document type.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		DocSafeguardingPolicy,
		DocInsurance,
		DocDBSCertificate,
		DocRiskAssessment,
		DocStaffQualifications,
		DocHealthSafety,
		DocOther,
	}
}

// DocumentStatus tracks the review lifecycle of a document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
	DocumentExpired  DocumentStatus = "expired"
)

// CanTransitionTo reports whether the status may move to next.
// Pending documents go to approved or rejected by an admin decision;
// approved documents go to expired by the reminder worker. Rejected and
// expired are terminal; superseding requires a fresh upload.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	switch s {
	case DocumentPending:
		return next == DocumentApproved || next == DocumentRejected
	case DocumentApproved:
		return next == DocumentExpired
	default:
		return false
	}
}

// Document represents one uploaded piece of evidence for one club.
type Document struct {
	ID               uuid.UUID      `json:"id"`
	ClubID           uuid.UUID      `json:"club_id"`
	Type             DocumentType   `json:"document_type"`
	Status           DocumentStatus `json:"status"`
	StorageHandle    string         `json:"-"`
	OriginalFilename string         `json:"original_filename"`
	ContentType      string         `json:"content_type"`
	SizeBytes        int64          `json:"size_bytes"`
	ExpiryDate       *time.Time     `json:"expiry_date,omitempty"`
	AdminNotes       *string        `json:"admin_notes,omitempty"`
	ReviewerID       *uuid.UUID     `json:"reviewer_id,omitempty"`
	ReviewedAt       *time.Time     `json:"reviewed_at,omitempty"`
	UploadedAt       time.Time      `json:"uploaded_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// OwnerProfileID identifies the club profile that owns this document.
func (d *Document) OwnerProfileID() uuid.UUID { return d.ClubID }

// PastExpiry reports whether the document's expiry date has passed.
// Documents without an expiry date never expire.
func (d *Document) PastExpiry(now time.Time) bool {
	return d.ExpiryDate != nil && !now.Before(*d.ExpiryDate)
}

// CurrentlyApproved reports whether the document counts toward verification:
// approved and not past its expiry date.
func (d *Document) CurrentlyApproved(now time.Time) bool {
	return d.Status == DocumentApproved && !d.PastExpiry(now)
}

// ReviewDecision carries an admin's verdict on a pending document.
type ReviewDecision struct {
	Outcome    DocumentStatus
	ReviewerID uuid.UUID
	Notes      *string
	ReviewedAt time.Time
}
