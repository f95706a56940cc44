package auth

import (
	"testing"
	"time"

	"github.com/clubsure/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret-with-enough-entropy-123", time.Hour)
	profileID := uuid.New()
	principal := domain.Principal{
		UserID:    uuid.New(),
		Role:      domain.RoleClub,
		ProfileID: &profileID,
	}

	token, err := mgr.GenerateToken(principal)
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)

	got, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, principal.UserID, got.UserID)
	assert.Equal(t, domain.RoleClub, got.Role)
	require.NotNil(t, got.ProfileID)
	assert.Equal(t, profileID, *got.ProfileID)
}

func TestJWT_SuperAdminSubRoleSurvives(t *testing.T) {
	mgr := NewJWTManager("test-secret-with-enough-entropy-123", time.Hour)
	principal := domain.Principal{
		UserID:       uuid.New(),
		Role:         domain.RoleAdmin,
		AdminSubRole: domain.SubRoleSuperAdmin,
	}

	token, err := mgr.GenerateToken(principal)
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)

	got, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, domain.SubRoleSuperAdmin, got.AdminSubRole)
	assert.Nil(t, got.ProfileID)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	mgr := NewJWTManager("test-secret-with-enough-entropy-123", time.Hour)
	other := NewJWTManager("a-completely-different-secret-456789", time.Hour)

	token, err := mgr.GenerateToken(domain.Principal{UserID: uuid.New(), Role: domain.RoleParent})
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_ExpiredTokenRejected(t *testing.T) {
	mgr := NewJWTManager("test-secret-with-enough-entropy-123", -time.Minute)

	token, err := mgr.GenerateToken(domain.Principal{UserID: uuid.New(), Role: domain.RoleParent})
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_UnknownRoleRejected(t *testing.T) {
	mgr := NewJWTManager("test-secret-with-enough-entropy-123", time.Hour)

	token, err := mgr.GenerateToken(domain.Principal{UserID: uuid.New(), Role: "wizard"})
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)

	_, err = claims.Principal()
	assert.Error(t, err)
}
