package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clubsure/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const documentColumns = `id, club_id, document_type, status, storage_handle, original_filename,
	content_type, size_bytes, expiry_date, admin_notes, reviewer_id, reviewed_at, uploaded_at, updated_at`

type documentRepo struct{}

// NewDocumentRepository returns a pgx-backed DocumentRepository.
func NewDocumentRepository() DocumentRepository {
	return &documentRepo{}
}

func (r *documentRepo) Create(ctx context.Context, db DBTX, doc *domain.Document) error {
	_, err := db.Exec(ctx, `
		INSERT INTO documents (id, club_id, document_type, status, storage_handle, original_filename,
			content_type, size_bytes, expiry_date, uploaded_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		doc.ID, doc.ClubID, doc.Type, doc.Status, doc.StorageHandle, doc.OriginalFilename,
		doc.ContentType, doc.SizeBytes, doc.ExpiryDate, doc.UploadedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *documentRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Document, error) {
	row := db.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

func (r *documentRepo) ListByClub(ctx context.Context, db DBTX, clubID uuid.UUID) ([]domain.Document, error) {
	rows, err := db.Query(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE club_id = $1
		ORDER BY uploaded_at DESC`, clubID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// ApplyDecision is conditional on the current status being pending, which
// is what serializes two racing decisions: exactly one matches the row.
func (r *documentRepo) ApplyDecision(ctx context.Context, db DBTX, id uuid.UUID, decision domain.ReviewDecision) (*domain.Document, error) {
	row := db.QueryRow(ctx, `
		UPDATE documents
		SET status = $2, reviewer_id = $3, admin_notes = $4, reviewed_at = $5, updated_at = now()
		WHERE id = $1 AND status = $6
		RETURNING `+documentColumns,
		id, decision.Outcome, decision.ReviewerID, decision.Notes, decision.ReviewedAt, domain.DocumentPending,
	)
	return scanDocument(row)
}

func (r *documentRepo) MarkExpired(ctx context.Context, db DBTX, id uuid.UUID, asOf time.Time) (*domain.Document, error) {
	row := db.QueryRow(ctx, `
		UPDATE documents
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3 AND expiry_date IS NOT NULL AND expiry_date <= $4
		RETURNING `+documentColumns,
		id, domain.DocumentExpired, domain.DocumentApproved, asOf,
	)
	return scanDocument(row)
}

func (r *documentRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (r *documentRepo) ListExpiringWithin(ctx context.Context, db DBTX, asOf, until time.Time) ([]domain.Document, error) {
	rows, err := db.Query(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE status = $1 AND expiry_date IS NOT NULL AND expiry_date > $2 AND expiry_date <= $3
		ORDER BY expiry_date ASC`,
		domain.DocumentApproved, asOf, until)
	if err != nil {
		return nil, fmt.Errorf("list expiring documents: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (r *documentRepo) ListExpired(ctx context.Context, db DBTX, asOf time.Time) ([]domain.Document, error) {
	rows, err := db.Query(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE status = $1 AND expiry_date IS NOT NULL AND expiry_date <= $2
		ORDER BY expiry_date ASC`,
		domain.DocumentApproved, asOf)
	if err != nil {
		return nil, fmt.Errorf("list expired documents: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	err := row.Scan(
		&d.ID, &d.ClubID, &d.Type, &d.Status, &d.StorageHandle, &d.OriginalFilename,
		&d.ContentType, &d.SizeBytes, &d.ExpiryDate, &d.AdminNotes, &d.ReviewerID,
		&d.ReviewedAt, &d.UploadedAt, &d.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &d, nil
}

func scanDocuments(rows pgx.Rows) ([]domain.Document, error) {
	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(
			&d.ID, &d.ClubID, &d.Type, &d.Status, &d.StorageHandle, &d.OriginalFilename,
			&d.ContentType, &d.SizeBytes, &d.ExpiryDate, &d.AdminNotes, &d.ReviewerID,
			&d.ReviewedAt, &d.UploadedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
