package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is the club-level outcome of the review lifecycle.
type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "pending"
	VerificationInReview  VerificationStatus = "in_review"
	VerificationApproved  VerificationStatus = "approved"
	VerificationRejected  VerificationStatus = "rejected"
	VerificationSuspended VerificationStatus = "suspended"
)

// SafeguardingTier is the level of safeguarding a club advertises.
// Enhanced and premium require a larger mandatory document set and are
// only valid while the club's verification status is approved.
type SafeguardingTier string

const (
	TierStandard SafeguardingTier = "standard"
	TierEnhanced SafeguardingTier = "enhanced"
	TierPremium  SafeguardingTier = "premium"
)

// ValidTier reports whether t is a recognized safeguarding tier.
func ValidTier(t SafeguardingTier) bool {
	switch t {
	case TierStandard, TierEnhanced, TierPremium:
		return true
	}
	return false
}

// ClubProfile is the entity whose public "verified" badge is gated on the
// document lifecycle.
type ClubProfile struct {
	ID                 uuid.UUID          `json:"id"`
	OwnerUserID        uuid.UUID          `json:"owner_user_id"`
	Name               string             `json:"name"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	SafeguardingTier   SafeguardingTier   `json:"safeguarding_tier"`
	TierExpiryDate     *time.Time         `json:"tier_expiry_date,omitempty"`
	LastActiveAt       *time.Time         `json:"last_active_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// OwnerProfileID identifies the profile itself; a club principal owns its
// own profile.
func (c *ClubProfile) OwnerProfileID() uuid.UUID { return c.ID }
