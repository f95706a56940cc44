package verification

import (
	"context"
	"log/slog"
	"time"

	"github.com/clubsure/platform/internal/domain"
	"github.com/clubsure/platform/internal/policy"
	"github.com/clubsure/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Service recomputes club verification status and handles admin
// overrides (suspend, unsuspend, tier changes).
type Service struct {
	db     repository.DB
	clubs  repository.ClubRepository
	docs   repository.DocumentRepository
	policy Policy
	logger *slog.Logger
}

// NewService creates a verification service.
func NewService(db repository.DB, clubs repository.ClubRepository, docs repository.DocumentRepository, pol Policy, logger *slog.Logger) *Service {
	return &Service{db: db, clubs: clubs, docs: docs, policy: pol, logger: logger}
}

// RecomputeInTx derives and persists the club's verification status from
// its current document set. The caller must hold the club row lock; this
// keeps the recomputation atomic with the document mutation that
// triggered it. Suspended clubs are left untouched until an admin lifts
// the suspension.
func (s *Service) RecomputeInTx(ctx context.Context, tx pgx.Tx, club *domain.ClubProfile) (*domain.ClubProfile, error) {
	if club.VerificationStatus == domain.VerificationSuspended {
		return club, nil
	}

	docs, err := s.docs.ListByClub(ctx, tx, club.ID)
	if err != nil {
		return nil, domain.ErrInternal("list club documents", err)
	}

	status := Derive(docs, club.SafeguardingTier, s.policy, time.Now())
	club.VerificationStatus = status
	if status != domain.VerificationApproved {
		// Enhanced and premium tiers are only valid while approved.
		club.SafeguardingTier = domain.TierStandard
		club.TierExpiryDate = nil
	}

	if err := s.clubs.UpdateVerification(ctx, tx, club); err != nil {
		return nil, domain.ErrInternal("update club verification", err)
	}
	return club, nil
}

// Recompute recomputes a club's status in its own transaction, for the
// admin override endpoint.
func (s *Service) Recompute(ctx context.Context, principal domain.Principal, clubID uuid.UUID) (*domain.ClubProfile, error) {
	if d := policy.Authorize(principal, domain.ActionDecide, suspendTarget(clubID)); !d.Allowed {
		return nil, domain.ErrAccessDenied(d.Reason)
	}

	return s.inTx(ctx, clubID, func(tx pgx.Tx, locked *domain.ClubProfile) (*domain.ClubProfile, error) {
		return s.RecomputeInTx(ctx, tx, locked)
	})
}

// Suspend sets a club to suspended. Suspension overrides the derived
// status until an admin lifts it; the tier is clamped immediately.
func (s *Service) Suspend(ctx context.Context, principal domain.Principal, clubID uuid.UUID) (*domain.ClubProfile, error) {
	if d := policy.Authorize(principal, domain.ActionSuspendClub, suspendTarget(clubID)); !d.Allowed {
		return nil, domain.ErrAccessDenied(d.Reason)
	}

	return s.inTx(ctx, clubID, func(tx pgx.Tx, club *domain.ClubProfile) (*domain.ClubProfile, error) {
		club.VerificationStatus = domain.VerificationSuspended
		club.SafeguardingTier = domain.TierStandard
		club.TierExpiryDate = nil
		if err := s.clubs.UpdateVerification(ctx, tx, club); err != nil {
			return nil, domain.ErrInternal("suspend club", err)
		}
		return club, nil
	})
}

// Unsuspend lifts a suspension and rederives the status from the current
// document set.
func (s *Service) Unsuspend(ctx context.Context, principal domain.Principal, clubID uuid.UUID) (*domain.ClubProfile, error) {
	if d := policy.Authorize(principal, domain.ActionSuspendClub, suspendTarget(clubID)); !d.Allowed {
		return nil, domain.ErrAccessDenied(d.Reason)
	}

	return s.inTx(ctx, clubID, func(tx pgx.Tx, club *domain.ClubProfile) (*domain.ClubProfile, error) {
		if club.VerificationStatus != domain.VerificationSuspended {
			return nil, domain.ErrInvalidTransition("club is not suspended")
		}
		// Clear the suspension so RecomputeInTx derives a fresh status.
		club.VerificationStatus = domain.VerificationPending
		return s.RecomputeInTx(ctx, tx, club)
	})
}

// SetTier changes a club's safeguarding tier. The tier must be satisfied
// by the club's current approved documents, so an enhanced upgrade with
// missing staff-qualification evidence is rejected rather than silently
// clamped on the next recompute.
func (s *Service) SetTier(ctx context.Context, principal domain.Principal, clubID uuid.UUID, tier domain.SafeguardingTier, tierExpiry *time.Time) (*domain.ClubProfile, error) {
	if !domain.ValidTier(tier) {
		return nil, domain.ErrValidation("unknown safeguarding tier")
	}
	if d := policy.Authorize(principal, domain.ActionSetTier, suspendTarget(clubID)); !d.Allowed {
		return nil, domain.ErrAccessDenied(d.Reason)
	}

	return s.inTx(ctx, clubID, func(tx pgx.Tx, club *domain.ClubProfile) (*domain.ClubProfile, error) {
		if tier != domain.TierStandard {
			if club.VerificationStatus != domain.VerificationApproved {
				return nil, domain.ErrInvalidTransition("tier upgrades require approved verification status")
			}
			docs, err := s.docs.ListByClub(ctx, tx, club.ID)
			if err != nil {
				return nil, domain.ErrInternal("list club documents", err)
			}
			if Derive(docs, tier, s.policy, time.Now()) != domain.VerificationApproved {
				return nil, domain.ErrValidation("club documents do not satisfy the requested tier")
			}
		}

		club.SafeguardingTier = tier
		club.TierExpiryDate = tierExpiry
		if tier == domain.TierStandard {
			club.TierExpiryDate = nil
		}
		if err := s.clubs.UpdateVerification(ctx, tx, club); err != nil {
			return nil, domain.ErrInternal("set club tier", err)
		}
		return club, nil
	})
}

// inTx locks the club row, runs fn, and commits.
func (s *Service) inTx(ctx context.Context, clubID uuid.UUID, fn func(pgx.Tx, *domain.ClubProfile) (*domain.ClubProfile, error)) (*domain.ClubProfile, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	club, err := s.clubs.LockForUpdate(ctx, tx, clubID)
	if err != nil {
		return nil, domain.ErrInternal("lock club", err)
	}
	if club == nil {
		return nil, domain.ErrNotFound("club", clubID.String())
	}

	result, err := fn(tx, club)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}
	return result, nil
}

// suspendTarget is a minimal OwnedResource for admin-only club actions,
// where ownership never grants access anyway.
type suspendTarget uuid.UUID

func (t suspendTarget) OwnerProfileID() uuid.UUID { return uuid.UUID(t) }
