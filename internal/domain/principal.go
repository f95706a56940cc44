package domain

import "github.com/google/uuid"

// Role is the coarse role of an authenticated actor.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClub   Role = "club"
	RoleParent Role = "parent"
)

// Admin sub-roles. Super admins may perform irreversible actions that are
// off-limits to regular admins.
const (
	SubRoleSuperAdmin = "super_admin"
)

// Action identifies an operation being authorized against a resource.
type Action string

const (
	ActionView         Action = "view"
	ActionUpload       Action = "upload"
	ActionDelete       Action = "delete"
	ActionDecide       Action = "decide-verification"
	ActionSuspendClub  Action = "suspend-club"
	ActionSetTier      Action = "set-tier"
	ActionRunReminders Action = "run-reminders"
	ActionPurgeAudit   Action = "purge-audit"
)

// Principal is the already-authenticated actor behind a request. It is
// built by the auth middleware and never persisted.
type Principal struct {
	UserID       uuid.UUID
	Role         Role
	ProfileID    *uuid.UUID // club profile owned by this user, if any
	AdminSubRole string
}

// OwnsProfile reports whether the principal owns the given club profile.
func (p Principal) OwnsProfile(profileID uuid.UUID) bool {
	return p.ProfileID != nil && *p.ProfileID == profileID
}
