package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/clubsure/platform/internal/domain"
	"github.com/clubsure/platform/internal/lifecycle"
	"github.com/clubsure/platform/internal/notify"
	"github.com/clubsure/platform/internal/repository"
	"github.com/google/uuid"
)

// Worker drives the document expiry and reminder cycle. Each cycle first
// expires approved documents past their expiry date, then sends reminder
// notifications for documents approaching it. Reminders are recorded per
// (document, threshold) so a restart or overlapping worker never sends
// the same reminder twice.
type Worker struct {
	db         repository.DB
	docs       repository.DocumentRepository
	clubs      repository.ClubRepository
	reminders  repository.ReminderRepository
	engine     *lifecycle.Engine
	notifier   notify.Notifier
	thresholds []int
	interval   time.Duration
	logger     *slog.Logger
}

// NewWorker creates a reminder worker. Thresholds are days before expiry
// at which a reminder fires; they are sorted ascending internally.
func NewWorker(
	db repository.DB,
	docs repository.DocumentRepository,
	clubs repository.ClubRepository,
	reminders repository.ReminderRepository,
	engine *lifecycle.Engine,
	notifier notify.Notifier,
	thresholds []int,
	interval time.Duration,
	logger *slog.Logger,
) *Worker {
	sorted := make([]int, len(thresholds))
	copy(sorted, thresholds)
	sort.Ints(sorted)
	return &Worker{
		db:         db,
		docs:       docs,
		clubs:      clubs,
		reminders:  reminders,
		engine:     engine,
		notifier:   notifier,
		thresholds: sorted,
		interval:   interval,
		logger:     logger,
	}
}

// Run executes cycles on the configured interval until the context is
// cancelled. The first cycle runs immediately.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("reminder worker started", "interval", w.interval, "thresholds", w.thresholds)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			w.RunCycle(ctx)
		}
	}
}

// RunCycle executes one expiry-then-reminders pass. A failure on one
// document is logged and does not stop the rest of the pass.
func (w *Worker) RunCycle(ctx context.Context) {
	now := time.Now()
	expired := w.expirePass(ctx, now)
	reminded := w.reminderPass(ctx, now)
	w.logger.Info("reminder cycle complete", "expired", expired, "reminders_sent", reminded)
}

func (w *Worker) expirePass(ctx context.Context, now time.Time) int {
	docs, err := w.docs.ListExpired(ctx, w.db, now)
	if err != nil {
		w.logger.Error("list expired documents", "error", err)
		return 0
	}

	var count int
	for _, doc := range docs {
		if _, err := w.engine.Expire(ctx, doc.ID); err != nil {
			// A concurrent worker already expired it; anything else is
			// a real failure worth logging.
			var appErr *domain.AppError
			if errors.As(err, &appErr) && appErr.Code == domain.CodeInvalidTransition {
				continue
			}
			w.logger.Error("expire document", "document_id", doc.ID, "error", err)
			continue
		}
		count++
		w.notifyExpiry(ctx, doc, 0, domain.NotifyDocumentExpired)
	}
	return count
}

func (w *Worker) reminderPass(ctx context.Context, now time.Time) int {
	if len(w.thresholds) == 0 {
		return 0
	}

	maxDays := w.thresholds[len(w.thresholds)-1]
	until := now.AddDate(0, 0, maxDays)
	docs, err := w.docs.ListExpiringWithin(ctx, w.db, now, until)
	if err != nil {
		w.logger.Error("list expiring documents", "error", err)
		return 0
	}

	var count int
	for _, doc := range docs {
		daysLeft := int(doc.ExpiryDate.Sub(now).Hours() / 24)

		// The smallest threshold covering daysLeft is the one that
		// should fire now. Larger thresholds are already behind us, so
		// they are marked too; a document uploaded five days before
		// expiry must not get a late 30-day reminder on top of the
		// 7-day one.
		fireAt := -1
		for _, t := range w.thresholds {
			if t >= daysLeft {
				fireAt = t
				break
			}
		}
		if fireAt < 0 {
			continue
		}

		send := false
		for _, t := range w.thresholds {
			if t < fireAt {
				continue
			}
			fired, err := w.reminders.MarkFired(ctx, w.db, doc.ID, t)
			if err != nil {
				w.logger.Error("record reminder", "document_id", doc.ID, "threshold_days", t, "error", err)
				continue
			}
			if t == fireAt && fired {
				send = true
			}
		}
		if !send {
			continue
		}

		w.notifyExpiry(ctx, doc, fireAt, domain.NotifyDocumentExpiring)
		count++
	}
	return count
}

func (w *Worker) notifyExpiry(ctx context.Context, doc domain.Document, thresholdDays int, kind domain.NotificationKind) {
	owner, err := w.ownerOf(ctx, doc.ClubID)
	if err != nil {
		w.logger.Error("resolve club owner", "club_id", doc.ClubID, "error", err)
		return
	}

	var expiry time.Time
	if doc.ExpiryDate != nil {
		expiry = *doc.ExpiryDate
	}
	payload := domain.DocumentReminderPayload{
		DocumentID:    doc.ID,
		ClubID:        doc.ClubID,
		DocumentType:  doc.Type,
		ExpiryDate:    expiry,
		ThresholdDays: thresholdDays,
	}
	if err := w.notifier.Notify(ctx, owner, kind, payload); err != nil {
		w.logger.Error("expiry notification failed", "document_id", doc.ID, "kind", kind, "error", err)
	}
}

func (w *Worker) ownerOf(ctx context.Context, clubID uuid.UUID) (uuid.UUID, error) {
	club, err := w.clubs.FindByID(ctx, w.db, clubID)
	if err != nil {
		return uuid.Nil, err
	}
	if club == nil {
		return uuid.Nil, domain.ErrNotFound("club", clubID.String())
	}
	return club.OwnerUserID, nil
}
