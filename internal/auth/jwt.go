package auth

import (
	"fmt"
	"time"

	"github.com/clubsure/platform/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims holds the custom JWT claims for all principal roles.
type Claims struct {
	jwt.RegisteredClaims
	Role         domain.Role `json:"role"`
	ProfileID    string      `json:"profile_id,omitempty"`     // club role: owned club profile
	AdminSubRole string      `json:"admin_sub_role,omitempty"` // admin role: super_admin
}

// JWTManager handles token generation and validation.
type JWTManager struct {
	secret []byte
	expiry time.Duration
}

// NewJWTManager creates a JWT manager.
func NewJWTManager(secret string, expiry time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), expiry: expiry}
}

// GenerateToken creates a signed JWT for the given principal.
func (m *JWTManager) GenerateToken(principal domain.Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			ID:        uuid.New().String(),
		},
		Role:         principal.Role,
		AdminSubRole: principal.AdminSubRole,
	}
	if principal.ProfileID != nil {
		claims.ProfileID = principal.ProfileID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT, returning claims if valid.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// Principal converts validated claims into a domain principal.
func (c *Claims) Principal() (domain.Principal, error) {
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("invalid subject: %w", err)
	}

	switch c.Role {
	case domain.RoleAdmin, domain.RoleClub, domain.RoleParent:
	default:
		return domain.Principal{}, fmt.Errorf("unknown role: %s", c.Role)
	}

	p := domain.Principal{
		UserID:       userID,
		Role:         c.Role,
		AdminSubRole: c.AdminSubRole,
	}
	if c.ProfileID != "" {
		profileID, err := uuid.Parse(c.ProfileID)
		if err != nil {
			return domain.Principal{}, fmt.Errorf("invalid profile_id: %w", err)
		}
		p.ProfileID = &profileID
	}
	return p, nil
}
