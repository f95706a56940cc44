package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Status transition tests ---

func TestDocumentStatusTransitions(t *testing.T) {
	all := []DocumentStatus{DocumentPending, DocumentApproved, DocumentRejected, DocumentExpired}

	allowed := map[DocumentStatus]map[DocumentStatus]bool{
		DocumentPending:  {DocumentApproved: true, DocumentRejected: true},
		DocumentApproved: {DocumentExpired: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestRejectedAndExpiredAreTerminal(t *testing.T) {
	for _, terminal := range []DocumentStatus{DocumentRejected, DocumentExpired} {
		for _, to := range []DocumentStatus{DocumentPending, DocumentApproved, DocumentRejected, DocumentExpired} {
			assert.False(t, terminal.CanTransitionTo(to), "%s -> %s must be illegal", terminal, to)
		}
	}
}

// --- Validator tests ---

func TestValidateDocumentType(t *testing.T) {
	for _, dt := range AllDocumentTypes() {
		require.NoError(t, ValidateDocumentType(dt))
	}

	tests := []struct {
		name string
		dt   DocumentType
	}{
		{"empty", DocumentType("")},
		{"unknown", DocumentType("tax_return")},
		{"wrong case", DocumentType("INSURANCE")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, ValidateDocumentType(tt.dt))
		})
	}
}

func TestValidateExpiryDate(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	require.NoError(t, ValidateExpiryDate(now, nil), "no expiry is valid")
	require.NoError(t, ValidateExpiryDate(now, &future))
	require.Error(t, ValidateExpiryDate(now, &past), "expiry before upload")
	require.Error(t, ValidateExpiryDate(now, &now), "expiry equal to upload must be strictly after")
}

func TestValidateFileSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		max     int64
		wantErr bool
	}{
		{"within limit", 100, 1000, false},
		{"exactly at limit", 1000, 1000, false},
		{"over limit", 1001, 1000, true},
		{"zero", 0, 1000, true},
		{"negative", -5, 1000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileSize(tt.size, tt.max)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// --- Document helpers ---

func TestDocumentPastExpiry(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	doc := Document{Status: DocumentApproved}
	assert.False(t, doc.PastExpiry(now), "no expiry date never expires")

	doc.ExpiryDate = &future
	assert.False(t, doc.PastExpiry(now))
	assert.True(t, doc.CurrentlyApproved(now))

	doc.ExpiryDate = &past
	assert.True(t, doc.PastExpiry(now))
	assert.False(t, doc.CurrentlyApproved(now), "past expiry no longer counts as approved")

	doc.ExpiryDate = &now
	assert.True(t, doc.PastExpiry(now), "expiry boundary is inclusive")
}

func TestPrincipalOwnsProfile(t *testing.T) {
	profileID := uuid.New()
	other := uuid.New()

	p := Principal{UserID: uuid.New(), Role: RoleClub, ProfileID: &profileID}
	assert.True(t, p.OwnsProfile(profileID))
	assert.False(t, p.OwnsProfile(other))

	noProfile := Principal{UserID: uuid.New(), Role: RoleParent}
	assert.False(t, noProfile.OwnsProfile(profileID))
}
