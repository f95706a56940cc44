package verification

import (
	"time"

	"github.com/clubsure/platform/internal/domain"
)

// Policy fixes the mandatory document-type set per safeguarding tier.
type Policy struct {
	MandatoryDocs map[domain.SafeguardingTier][]domain.DocumentType
}

// DefaultPolicy returns the built-in mandatory sets: standard clubs need
// the four core documents; enhanced and premium add staff qualifications
// and health & safety.
func DefaultPolicy() Policy {
	standard := []domain.DocumentType{
		domain.DocSafeguardingPolicy,
		domain.DocInsurance,
		domain.DocDBSCertificate,
		domain.DocRiskAssessment,
	}
	extended := append(append([]domain.DocumentType{}, standard...),
		domain.DocStaffQualifications,
		domain.DocHealthSafety,
	)
	return Policy{
		MandatoryDocs: map[domain.SafeguardingTier][]domain.DocumentType{
			domain.TierStandard: standard,
			domain.TierEnhanced: extended,
			domain.TierPremium:  extended,
		},
	}
}

// Mandatory returns the mandatory document types for a tier, falling back
// to the standard set for unknown tiers.
func (p Policy) Mandatory(tier domain.SafeguardingTier) []domain.DocumentType {
	if docs, ok := p.MandatoryDocs[tier]; ok {
		return docs
	}
	return p.MandatoryDocs[domain.TierStandard]
}

// Derive computes a club's verification status from its document set.
// It is a pure function of the snapshot: deterministic and independent of
// document order. Suspension is not derived here; it is applied by
// explicit admin action and overrides the derived value.
func Derive(docs []domain.Document, tier domain.SafeguardingTier, pol Policy, now time.Time) domain.VerificationStatus {
	if len(docs) == 0 {
		return domain.VerificationPending
	}

	approvedByType := map[domain.DocumentType]bool{}
	latestByType := map[domain.DocumentType]*domain.Document{}
	for i := range docs {
		d := &docs[i]
		if d.CurrentlyApproved(now) {
			approvedByType[d.Type] = true
		}
		if cur, ok := latestByType[d.Type]; !ok || d.UploadedAt.After(cur.UploadedAt) {
			latestByType[d.Type] = d
		}
	}

	allApproved := true
	anyRejected := false
	for _, required := range pol.Mandatory(tier) {
		if approvedByType[required] {
			continue
		}
		allApproved = false
		if latest, ok := latestByType[required]; ok && latest.Status == domain.DocumentRejected {
			anyRejected = true
		}
	}

	switch {
	case allApproved:
		return domain.VerificationApproved
	case anyRejected:
		return domain.VerificationRejected
	default:
		return domain.VerificationInReview
	}
}
