package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/clubsure/platform/internal/domain"
	"github.com/clubsure/platform/internal/policy"
	"github.com/clubsure/platform/internal/repository"
	"github.com/clubsure/platform/internal/scheduler"
	"github.com/clubsure/platform/internal/verification"
	"github.com/google/uuid"
)

// ClubHandler handles club registration and verification endpoints.
type ClubHandler struct {
	clubs    repository.ClubRepository
	verifier *verification.Service
	worker   *scheduler.Worker
	db       repository.DBTX
}

// NewClubHandler creates a new ClubHandler.
func NewClubHandler(clubs repository.ClubRepository, verifier *verification.Service, worker *scheduler.Worker, db repository.DBTX) *ClubHandler {
	return &ClubHandler{clubs: clubs, verifier: verifier, worker: worker, db: db}
}

// registerRequest is the body of POST /clubs.
type registerRequest struct {
	Name string `json:"name"`
}

// Register handles POST /clubs. A new club starts pending at the
// standard tier; verification moves only through document review.
func (h *ClubHandler) Register(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	if principal.Role != domain.RoleClub {
		RespondError(w, domain.ErrAccessDenied("only club accounts can register a club"))
		return
	}

	var req registerRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		RespondError(w, domain.ErrValidation("name is required"))
		return
	}

	now := time.Now()
	club := &domain.ClubProfile{
		ID:                 uuid.New(),
		OwnerUserID:        principal.UserID,
		Name:               req.Name,
		VerificationStatus: domain.VerificationPending,
		SafeguardingTier:   domain.TierStandard,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := h.clubs.Create(r.Context(), h.db, club); err != nil {
		RespondError(w, domain.ErrInternal("create club", err))
		return
	}

	RespondJSON(w, http.StatusCreated, club)
}

// Get handles GET /clubs/{clubID}.
func (h *ClubHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	clubID, err := uuidParam(r, "clubID")
	if err != nil {
		RespondError(w, err)
		return
	}

	club, err := h.clubs.FindByID(r.Context(), h.db, clubID)
	if err != nil {
		RespondError(w, domain.ErrInternal("find club", err))
		return
	}
	if club == nil {
		RespondError(w, domain.ErrNotFound("club", clubID.String()))
		return
	}
	if d := policy.Authorize(principal, domain.ActionView, club); !d.Allowed {
		RespondError(w, domain.ErrAccessDenied(d.Reason))
		return
	}

	RespondJSON(w, http.StatusOK, club)
}

// Recompute handles POST /admin/clubs/{clubID}/recompute.
func (h *ClubHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, h.verifier.Recompute)
}

// Suspend handles POST /admin/clubs/{clubID}/suspend.
func (h *ClubHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, h.verifier.Suspend)
}

// Unsuspend handles POST /admin/clubs/{clubID}/unsuspend.
func (h *ClubHandler) Unsuspend(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, h.verifier.Unsuspend)
}

// tierRequest is the body of PUT /admin/clubs/{clubID}/tier.
type tierRequest struct {
	Tier           string     `json:"tier"`
	TierExpiryDate *time.Time `json:"tier_expiry_date,omitempty"`
}

// SetTier handles PUT /admin/clubs/{clubID}/tier.
func (h *ClubHandler) SetTier(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	clubID, err := uuidParam(r, "clubID")
	if err != nil {
		RespondError(w, err)
		return
	}

	var req tierRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	club, err := h.verifier.SetTier(r.Context(), principal, clubID, domain.SafeguardingTier(req.Tier), req.TierExpiryDate)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, club)
}

// RunReminders handles POST /admin/reminders/run, forcing one worker
// cycle outside the schedule.
func (h *ClubHandler) RunReminders(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	if principal.Role != domain.RoleAdmin {
		RespondError(w, domain.ErrAccessDenied("insufficient role"))
		return
	}

	h.worker.RunCycle(r.Context())
	RespondJSON(w, http.StatusAccepted, map[string]string{"status": "cycle complete"})
}

func (h *ClubHandler) adminAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, principal domain.Principal, clubID uuid.UUID) (*domain.ClubProfile, error)) {
	principal, err := principalFromRequest(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	clubID, err := uuidParam(r, "clubID")
	if err != nil {
		RespondError(w, err)
		return
	}

	club, err := fn(r.Context(), principal, clubID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, club)
}
