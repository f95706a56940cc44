package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type reminderRepo struct{}

// NewReminderRepository returns a pgx-backed ReminderRepository.
func NewReminderRepository() ReminderRepository {
	return &reminderRepo{}
}

// MarkFired relies on the unique (document_id, threshold_days) index:
// the insert either lands (this call fired the threshold) or conflicts
// (an earlier cycle already did).
func (r *reminderRepo) MarkFired(ctx context.Context, db DBTX, documentID uuid.UUID, thresholdDays int) (bool, error) {
	tag, err := db.Exec(ctx, `
		INSERT INTO document_reminders (document_id, threshold_days, fired_at)
		VALUES ($1, $2, now())
		ON CONFLICT (document_id, threshold_days) DO NOTHING`,
		documentID, thresholdDays,
	)
	if err != nil {
		return false, fmt.Errorf("mark reminder fired: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
