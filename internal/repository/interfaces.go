package repository

import (
	"context"
	"time"

	"github.com/clubsure/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// DB is a DBTX that can also open transactions. *pgxpool.Pool satisfies it.
type DB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DocumentRepository provides access to documents.
type DocumentRepository interface {
	// Create inserts a new document record.
	Create(ctx context.Context, db DBTX, doc *domain.Document) error

	// FindByID returns a document by ID, or nil if unknown.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Document, error)

	// ListByClub returns all documents for a club, newest upload first.
	ListByClub(ctx context.Context, db DBTX, clubID uuid.UUID) ([]domain.Document, error)

	// ApplyDecision conditionally moves a pending document to the
	// decision outcome. Returns nil if the document was not pending:
	// of two racing decisions exactly one sees a row.
	ApplyDecision(ctx context.Context, db DBTX, id uuid.UUID, decision domain.ReviewDecision) (*domain.Document, error)

	// MarkExpired conditionally moves an approved, past-expiry document
	// to expired. Returns nil if the document did not match.
	MarkExpired(ctx context.Context, db DBTX, id uuid.UUID, asOf time.Time) (*domain.Document, error)

	// Delete removes the record. The caller owns removal of the backing
	// bytes.
	Delete(ctx context.Context, db DBTX, id uuid.UUID) error

	// ListExpiringWithin returns approved documents whose expiry date
	// falls in (asOf, until].
	ListExpiringWithin(ctx context.Context, db DBTX, asOf, until time.Time) ([]domain.Document, error)

	// ListExpired returns approved documents whose expiry date has
	// passed as of the given time.
	ListExpired(ctx context.Context, db DBTX, asOf time.Time) ([]domain.Document, error)
}

// ClubRepository provides access to club_profiles.
type ClubRepository interface {
	// Create inserts a new club profile.
	Create(ctx context.Context, db DBTX, club *domain.ClubProfile) error

	// FindByID returns a club profile by ID, or nil if unknown.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.ClubProfile, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE). All
	// document mutation and status recomputation for a club serializes
	// on this lock.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ClubProfile, error)

	// UpdateVerification persists verification status, tier and tier
	// expiry.
	UpdateVerification(ctx context.Context, db DBTX, club *domain.ClubProfile) error

	// TouchLastActive updates the last-active timestamp. Best effort;
	// callers only log failures.
	TouchLastActive(ctx context.Context, db DBTX, id uuid.UUID) error
}

// ReminderRepository tracks which expiry-reminder thresholds have fired
// per document.
type ReminderRepository interface {
	// MarkFired records that the threshold fired for the document and
	// reports whether this call was the one that recorded it. The check
	// and the write are a single atomic statement, so a rerun cycle
	// cannot double-fire.
	MarkFired(ctx context.Context, db DBTX, documentID uuid.UUID, thresholdDays int) (bool, error)
}
