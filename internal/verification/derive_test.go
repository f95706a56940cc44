package verification

import (
	"math/rand"
	"testing"
	"time"

	"github.com/clubsure/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func doc(dt domain.DocumentType, status domain.DocumentStatus, uploadedAt time.Time, expiry *time.Time) domain.Document {
	return domain.Document{
		ID:         uuid.New(),
		ClubID:     uuid.New(),
		Type:       dt,
		Status:     status,
		UploadedAt: uploadedAt,
		ExpiryDate: expiry,
	}
}

// approvedSet returns one approved document per mandatory standard type.
func approvedSet(now time.Time) []domain.Document {
	var docs []domain.Document
	for _, dt := range DefaultPolicy().Mandatory(domain.TierStandard) {
		docs = append(docs, doc(dt, domain.DocumentApproved, now.Add(-time.Hour), nil))
	}
	return docs
}

func TestDerive_NoDocumentsIsPending(t *testing.T) {
	status := Derive(nil, domain.TierStandard, DefaultPolicy(), time.Now())
	assert.Equal(t, domain.VerificationPending, status)
}

func TestDerive_AllMandatoryApproved(t *testing.T) {
	now := time.Now()
	status := Derive(approvedSet(now), domain.TierStandard, DefaultPolicy(), now)
	assert.Equal(t, domain.VerificationApproved, status)
}

func TestDerive_PendingMandatoryDocIsInReview(t *testing.T) {
	// Mandatory types {policy, insurance, dbs, risk}; insurance pending.
	now := time.Now()
	docs := []domain.Document{
		doc(domain.DocSafeguardingPolicy, domain.DocumentApproved, now.Add(-time.Hour), nil),
		doc(domain.DocInsurance, domain.DocumentPending, now.Add(-time.Hour), nil),
		doc(domain.DocDBSCertificate, domain.DocumentApproved, now.Add(-time.Hour), nil),
		doc(domain.DocRiskAssessment, domain.DocumentApproved, now.Add(-time.Hour), nil),
	}
	assert.Equal(t, domain.VerificationInReview, Derive(docs, domain.TierStandard, DefaultPolicy(), now))

	// Approving the pending insurance flips the club to approved.
	docs[1].Status = domain.DocumentApproved
	assert.Equal(t, domain.VerificationApproved, Derive(docs, domain.TierStandard, DefaultPolicy(), now))
}

func TestDerive_LatestRejectedMandatoryDocIsRejected(t *testing.T) {
	now := time.Now()
	docs := approvedSet(now)
	docs[0].Status = domain.DocumentRejected
	assert.Equal(t, domain.VerificationRejected, Derive(docs, domain.TierStandard, DefaultPolicy(), now))
}

func TestDerive_NewerUploadSupersedesRejected(t *testing.T) {
	now := time.Now()
	docs := approvedSet(now)
	// An older rejected insurance is superseded by the approved one.
	docs = append(docs, doc(domain.DocInsurance, domain.DocumentRejected, now.Add(-48*time.Hour), nil))
	assert.Equal(t, domain.VerificationApproved, Derive(docs, domain.TierStandard, DefaultPolicy(), now))
}

func TestDerive_RejectedResubmissionPendingIsInReview(t *testing.T) {
	now := time.Now()
	docs := approvedSet(now)
	docs[0].Status = domain.DocumentRejected
	// Club re-uploads the rejected type; newest is pending, so the club
	// is back in review rather than rejected.
	docs = append(docs, doc(docs[0].Type, domain.DocumentPending, now.Add(-time.Minute), nil))
	assert.Equal(t, domain.VerificationInReview, Derive(docs, domain.TierStandard, DefaultPolicy(), now))
}

func TestDerive_ExpiredDocumentStopsCountingAsApproved(t *testing.T) {
	now := time.Now()
	docs := approvedSet(now)
	past := now.Add(-time.Minute)
	docs[2].Status = domain.DocumentExpired
	docs[2].ExpiryDate = &past
	assert.Equal(t, domain.VerificationInReview, Derive(docs, domain.TierStandard, DefaultPolicy(), now))
}

func TestDerive_ApprovedPastExpiryDoesNotCount(t *testing.T) {
	// Status still approved in the store but expiry has passed: the
	// snapshot itself decides, not whether the worker got there yet.
	now := time.Now()
	docs := approvedSet(now)
	past := now.Add(-time.Minute)
	docs[0].ExpiryDate = &past
	assert.Equal(t, domain.VerificationInReview, Derive(docs, domain.TierStandard, DefaultPolicy(), now))
}

func TestDerive_EnhancedTierNeedsExtendedSet(t *testing.T) {
	now := time.Now()
	docs := approvedSet(now)
	assert.Equal(t, domain.VerificationInReview, Derive(docs, domain.TierEnhanced, DefaultPolicy(), now),
		"standard set alone cannot satisfy the enhanced tier")

	docs = append(docs,
		doc(domain.DocStaffQualifications, domain.DocumentApproved, now.Add(-time.Hour), nil),
		doc(domain.DocHealthSafety, domain.DocumentApproved, now.Add(-time.Hour), nil),
	)
	assert.Equal(t, domain.VerificationApproved, Derive(docs, domain.TierEnhanced, DefaultPolicy(), now))
}

func TestDerive_OrderIndependent(t *testing.T) {
	now := time.Now()
	docs := approvedSet(now)
	docs[1].Status = domain.DocumentRejected
	docs = append(docs, doc(domain.DocOther, domain.DocumentPending, now, nil))

	want := Derive(docs, domain.TierStandard, DefaultPolicy(), now)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.Document{}, docs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Derive(shuffled, domain.TierStandard, DefaultPolicy(), now))
	}
}

func TestDerive_OnlyNonMandatoryDocsIsInReview(t *testing.T) {
	now := time.Now()
	docs := []domain.Document{doc(domain.DocOther, domain.DocumentPending, now, nil)}
	assert.Equal(t, domain.VerificationInReview, Derive(docs, domain.TierStandard, DefaultPolicy(), now))
}
