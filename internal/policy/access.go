package policy

import (
	"github.com/clubsure/platform/internal/domain"
	"github.com/google/uuid"
)

// Deny reasons. Kept deliberately generic so a denial never reveals
// whether the resource exists.
const (
	ReasonInsufficientRole = "insufficient-role"
	ReasonNotOwner         = "not-owner"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny returns a negative decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// OwnedResource is any resource with a single owning club profile.
// Declaring the owner field is all a new resource type needs to get
// ownership enforcement.
type OwnedResource interface {
	OwnerProfileID() uuid.UUID
}

// accessRule grants an action to a set of roles, optionally requiring the
// principal to own the resource. Rules are evaluated in order; the first
// rule matching both action and role decides.
type accessRule struct {
	action       domain.Action
	roles        []domain.Role
	requireOwner bool
}

var rules = []accessRule{
	{action: domain.ActionView, roles: []domain.Role{domain.RoleClub, domain.RoleParent}, requireOwner: true},
	{action: domain.ActionUpload, roles: []domain.Role{domain.RoleClub}, requireOwner: true},
	{action: domain.ActionDelete, roles: []domain.Role{domain.RoleClub}, requireOwner: true},
	// decide-verification, suspend-club, set-tier, run-reminders and
	// purge-audit have no rows: they fall through to deny for everyone
	// except admins.
}

// superAdminOnly lists actions reserved for super admins; a regular admin
// is denied these.
var superAdminOnly = map[domain.Action]bool{
	domain.ActionPurgeAudit: true,
}

// Authorize decides whether the principal may perform action on resource.
// Admins pass everything except super-admin-reserved actions; everyone
// else is checked against the rule table.
func Authorize(p domain.Principal, action domain.Action, resource OwnedResource) Decision {
	if p.Role == domain.RoleAdmin {
		if superAdminOnly[action] && p.AdminSubRole != domain.SubRoleSuperAdmin {
			return Deny(ReasonInsufficientRole)
		}
		return Allow
	}

	for _, rule := range rules {
		if rule.action != action {
			continue
		}
		if !roleIn(p.Role, rule.roles) {
			continue
		}
		if rule.requireOwner && !p.OwnsProfile(resource.OwnerProfileID()) {
			return Deny(ReasonNotOwner)
		}
		return Allow
	}

	return Deny(ReasonInsufficientRole)
}

func roleIn(role domain.Role, roles []domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
