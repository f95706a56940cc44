package repository

import (
	"context"
	"fmt"

	"github.com/clubsure/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const clubColumns = `id, owner_user_id, name, verification_status, safeguarding_tier,
	tier_expiry_date, last_active_at, created_at, updated_at`

type clubRepo struct{}

// NewClubRepository returns a pgx-backed ClubRepository.
func NewClubRepository() ClubRepository {
	return &clubRepo{}
}

func (r *clubRepo) Create(ctx context.Context, db DBTX, club *domain.ClubProfile) error {
	_, err := db.Exec(ctx, `
		INSERT INTO club_profiles (id, owner_user_id, name, verification_status, safeguarding_tier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		club.ID, club.OwnerUserID, club.Name, club.VerificationStatus, club.SafeguardingTier,
		club.CreatedAt, club.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert club profile: %w", err)
	}
	return nil
}

func (r *clubRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.ClubProfile, error) {
	row := db.QueryRow(ctx, `SELECT `+clubColumns+` FROM club_profiles WHERE id = $1`, id)
	return scanClub(row)
}

func (r *clubRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ClubProfile, error) {
	row := tx.QueryRow(ctx, `SELECT `+clubColumns+` FROM club_profiles WHERE id = $1 FOR UPDATE`, id)
	return scanClub(row)
}

func (r *clubRepo) UpdateVerification(ctx context.Context, db DBTX, club *domain.ClubProfile) error {
	_, err := db.Exec(ctx, `
		UPDATE club_profiles
		SET verification_status = $2, safeguarding_tier = $3, tier_expiry_date = $4, updated_at = now()
		WHERE id = $1`,
		club.ID, club.VerificationStatus, club.SafeguardingTier, club.TierExpiryDate,
	)
	if err != nil {
		return fmt.Errorf("update club verification: %w", err)
	}
	return nil
}

func (r *clubRepo) TouchLastActive(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, `UPDATE club_profiles SET last_active_at = now() WHERE id = $1`, id)
	return err
}

func scanClub(row pgx.Row) (*domain.ClubProfile, error) {
	var c domain.ClubProfile
	err := row.Scan(
		&c.ID, &c.OwnerUserID, &c.Name, &c.VerificationStatus, &c.SafeguardingTier,
		&c.TierExpiryDate, &c.LastActiveAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan club profile: %w", err)
	}
	return &c, nil
}
