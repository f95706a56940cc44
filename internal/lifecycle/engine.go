package lifecycle

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/clubsure/platform/internal/domain"
	"github.com/clubsure/platform/internal/notify"
	"github.com/clubsure/platform/internal/policy"
	"github.com/clubsure/platform/internal/repository"
	"github.com/clubsure/platform/internal/storage"
	"github.com/clubsure/platform/internal/verification"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Engine owns the document review lifecycle: ingest, decide, expire,
// withdraw. Every mutation of a document serializes on the owning club's
// row lock, and the club's verification status is recomputed in the same
// transaction as the mutation that triggered it.
type Engine struct {
	db       repository.DB
	docs     repository.DocumentRepository
	clubs    repository.ClubRepository
	store    storage.Backend
	verifier *verification.Service
	notifier notify.Notifier
	cfg      Config
	logger   *slog.Logger
}

// NewEngine creates a document lifecycle engine.
func NewEngine(
	db repository.DB,
	docs repository.DocumentRepository,
	clubs repository.ClubRepository,
	store storage.Backend,
	verifier *verification.Service,
	notifier notify.Notifier,
	cfg Config,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		db:       db,
		docs:     docs,
		clubs:    clubs,
		store:    store,
		verifier: verifier,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// IngestParams carries a validated-at-the-edge upload into the engine.
type IngestParams struct {
	ClubID           uuid.UUID
	Type             domain.DocumentType
	File             io.Reader
	SizeBytes        int64
	ContentType      string
	OriginalFilename string
	ExpiryDate       *time.Time
}

// Ingest validates and stores an uploaded document. Validation runs
// before any storage write, so a rejected upload never touches the
// backend; a failed storage write never leaves a document record.
func (e *Engine) Ingest(ctx context.Context, principal domain.Principal, params IngestParams) (*domain.Document, error) {
	club, err := e.clubs.FindByID(ctx, e.db, params.ClubID)
	if err != nil {
		return nil, domain.ErrInternal("find club", err)
	}
	if club == nil {
		return nil, domain.ErrNotFound("club", params.ClubID.String())
	}
	if d := policy.Authorize(principal, domain.ActionUpload, club); !d.Allowed {
		return nil, domain.ErrAccessDenied(d.Reason)
	}

	now := time.Now()
	if err := e.cfg.ValidateUpload(params, now); err != nil {
		return nil, err
	}

	putCtx, cancel := context.WithTimeout(ctx, e.cfg.StorageTimeout)
	defer cancel()
	handle, err := e.store.Put(putCtx, params.File, params.ContentType, params.OriginalFilename)
	if err != nil {
		return nil, domain.ErrStorageFailure(err)
	}

	doc := &domain.Document{
		ID:               uuid.New(),
		ClubID:           params.ClubID,
		Type:             params.Type,
		Status:           domain.DocumentPending,
		StorageHandle:    handle,
		OriginalFilename: params.OriginalFilename,
		ContentType:      params.ContentType,
		SizeBytes:        params.SizeBytes,
		ExpiryDate:       params.ExpiryDate,
		UploadedAt:       now,
		UpdatedAt:        now,
	}

	if err := e.docs.Create(ctx, e.db, doc); err != nil {
		// The blob is orphaned if this cleanup fails too; that is a
		// maintenance concern, not a correctness one.
		if delErr := e.store.Delete(ctx, handle); delErr != nil {
			e.logger.Error("orphaned storage object after failed insert", "handle", handle, "error", delErr)
		}
		return nil, domain.ErrInternal("create document record", err)
	}

	return doc, nil
}

// Decide applies an admin verdict to a pending document and recomputes
// the club's verification status in the same transaction. A concurrent
// decision on the same document loses the conditional update and gets
// an invalid-transition error.
func (e *Engine) Decide(ctx context.Context, principal domain.Principal, documentID uuid.UUID, outcome domain.DocumentStatus, notes *string) (*domain.Document, error) {
	if outcome != domain.DocumentApproved && outcome != domain.DocumentRejected {
		return nil, domain.ErrValidation("decision outcome must be approved or rejected")
	}

	var decided *domain.Document
	var club *domain.ClubProfile

	err := e.inClubTx(ctx, documentID, func(tx pgx.Tx, doc *domain.Document, locked *domain.ClubProfile) error {
		if d := policy.Authorize(principal, domain.ActionDecide, doc); !d.Allowed {
			return domain.ErrAccessDenied(d.Reason)
		}

		var err error
		decided, err = e.docs.ApplyDecision(ctx, tx, documentID, domain.ReviewDecision{
			Outcome:    outcome,
			ReviewerID: principal.UserID,
			Notes:      notes,
			ReviewedAt: time.Now(),
		})
		if err != nil {
			return domain.ErrInternal("apply decision", err)
		}
		if decided == nil {
			return domain.ErrInvalidTransition("document is not pending")
		}

		club, err = e.verifier.RecomputeInTx(ctx, tx, locked)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.notifyDecision(ctx, club, decided, outcome, notes)
	return decided, nil
}

// Expire moves an approved, past-expiry document to expired and
// recomputes the club. Called only by the reminder worker. Expiring an
// already-expired document is a no-op, not an error.
func (e *Engine) Expire(ctx context.Context, documentID uuid.UUID) (*domain.Document, error) {
	var expired *domain.Document

	err := e.inClubTx(ctx, documentID, func(tx pgx.Tx, doc *domain.Document, locked *domain.ClubProfile) error {
		if doc.Status == domain.DocumentExpired {
			expired = doc
			return nil
		}

		now := time.Now()
		var err error
		expired, err = e.docs.MarkExpired(ctx, tx, documentID, now)
		if err != nil {
			return domain.ErrInternal("mark expired", err)
		}
		if expired == nil {
			return domain.ErrInvalidTransition("document is not approved or not yet past expiry")
		}

		_, err = e.verifier.RecomputeInTx(ctx, tx, locked)
		return err
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

// Withdraw deletes a document and its backing bytes. Allowed for the
// owning club or an admin at any status; the record is removed in the
// transaction, the bytes afterwards on a best-effort basis.
func (e *Engine) Withdraw(ctx context.Context, principal domain.Principal, documentID uuid.UUID) error {
	var handle string

	err := e.inClubTx(ctx, documentID, func(tx pgx.Tx, doc *domain.Document, locked *domain.ClubProfile) error {
		if d := policy.Authorize(principal, domain.ActionDelete, doc); !d.Allowed {
			return domain.ErrAccessDenied(d.Reason)
		}

		handle = doc.StorageHandle
		if err := e.docs.Delete(ctx, tx, documentID); err != nil {
			return domain.ErrInternal("delete document", err)
		}

		_, err := e.verifier.RecomputeInTx(ctx, tx, locked)
		return err
	})
	if err != nil {
		return err
	}

	if err := e.store.Delete(ctx, handle); err != nil {
		e.logger.Error("delete storage object", "handle", handle, "error", err)
	}
	return nil
}

// SignedURL returns a retrieval URL for a document's bytes.
func (e *Engine) SignedURL(ctx context.Context, principal domain.Principal, documentID uuid.UUID, expiry time.Duration) (string, error) {
	doc, err := e.docs.FindByID(ctx, e.db, documentID)
	if err != nil {
		return "", domain.ErrInternal("find document", err)
	}
	if doc == nil {
		return "", domain.ErrNotFound("document", documentID.String())
	}
	if d := policy.Authorize(principal, domain.ActionView, doc); !d.Allowed {
		return "", domain.ErrAccessDenied(d.Reason)
	}

	url, err := e.store.SignedURL(ctx, doc.StorageHandle, expiry)
	if err != nil {
		return "", domain.ErrStorageFailure(err)
	}
	return url, nil
}

// GetDocument returns a document for its owner or an admin.
func (e *Engine) GetDocument(ctx context.Context, principal domain.Principal, documentID uuid.UUID) (*domain.Document, error) {
	doc, err := e.docs.FindByID(ctx, e.db, documentID)
	if err != nil {
		return nil, domain.ErrInternal("find document", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound("document", documentID.String())
	}
	if d := policy.Authorize(principal, domain.ActionView, doc); !d.Allowed {
		return nil, domain.ErrAccessDenied(d.Reason)
	}
	return doc, nil
}

// ListClubDocuments returns a club's documents for its owner or an admin.
func (e *Engine) ListClubDocuments(ctx context.Context, principal domain.Principal, clubID uuid.UUID) ([]domain.Document, error) {
	club, err := e.clubs.FindByID(ctx, e.db, clubID)
	if err != nil {
		return nil, domain.ErrInternal("find club", err)
	}
	if club == nil {
		return nil, domain.ErrNotFound("club", clubID.String())
	}
	if d := policy.Authorize(principal, domain.ActionView, club); !d.Allowed {
		return nil, domain.ErrAccessDenied(d.Reason)
	}
	return e.docs.ListByClub(ctx, e.db, clubID)
}

// inClubTx opens a transaction, loads the document, locks the owning
// club row, runs fn, and commits. Locking the club before touching the
// document gives every mutation the same lock order.
func (e *Engine) inClubTx(ctx context.Context, documentID uuid.UUID, fn func(tx pgx.Tx, doc *domain.Document, club *domain.ClubProfile) error) error {
	tx, err := e.db.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	doc, err := e.docs.FindByID(ctx, tx, documentID)
	if err != nil {
		return domain.ErrInternal("find document", err)
	}
	if doc == nil {
		return domain.ErrNotFound("document", documentID.String())
	}

	club, err := e.clubs.LockForUpdate(ctx, tx, doc.ClubID)
	if err != nil {
		return domain.ErrInternal("lock club", err)
	}
	if club == nil {
		return domain.ErrNotFound("club", doc.ClubID.String())
	}

	if err := fn(tx, doc, club); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}
	return nil
}

func (e *Engine) notifyDecision(ctx context.Context, club *domain.ClubProfile, doc *domain.Document, outcome domain.DocumentStatus, notes *string) {
	if club == nil || doc == nil {
		return
	}
	payload := domain.DocumentDecisionPayload{
		DocumentID:   doc.ID,
		ClubID:       doc.ClubID,
		DocumentType: doc.Type,
		Outcome:      outcome,
		Notes:        notes,
	}
	if err := e.notifier.Notify(ctx, club.OwnerUserID, domain.NotifyDocumentDecided, payload); err != nil {
		e.logger.Error("decision notification failed", "document_id", doc.ID, "error", err)
	}
}
