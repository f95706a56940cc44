package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind names the outbound notification categories handed to
// the notification collaborator.
type NotificationKind string

const (
	NotifyDocumentExpiring NotificationKind = "document_expiring"
	NotifyDocumentExpired  NotificationKind = "document_expired"
	NotifyDocumentDecided  NotificationKind = "document_decided"
)

// DocumentReminderPayload is the payload for expiry reminders and expiry
// notices.
type DocumentReminderPayload struct {
	DocumentID    uuid.UUID    `json:"document_id"`
	ClubID        uuid.UUID    `json:"club_id"`
	DocumentType  DocumentType `json:"document_type"`
	ExpiryDate    time.Time    `json:"expiry_date"`
	ThresholdDays int          `json:"threshold_days"`
}

// DocumentDecisionPayload is the payload sent to a club owner when an
// admin decides one of their documents.
type DocumentDecisionPayload struct {
	DocumentID   uuid.UUID      `json:"document_id"`
	ClubID       uuid.UUID      `json:"club_id"`
	DocumentType DocumentType   `json:"document_type"`
	Outcome      DocumentStatus `json:"outcome"`
	Notes        *string        `json:"notes,omitempty"`
}
