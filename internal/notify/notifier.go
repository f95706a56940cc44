package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/clubsure/platform/internal/domain"
	"github.com/clubsure/platform/internal/infra"
	"github.com/google/uuid"
)

// Notifier hands a notification request to the delivery collaborator.
// Fire and forget: callers log failures and never retry or surface them.
type Notifier interface {
	Notify(ctx context.Context, recipientID uuid.UUID, kind domain.NotificationKind, payload any) error
}

// KafkaNotifier publishes notification requests to Kafka, keyed by
// recipient so one user's notifications stay ordered.
type KafkaNotifier struct {
	producer *infra.KafkaProducer
	logger   *slog.Logger
}

// NewKafkaNotifier creates a Kafka-backed notifier.
func NewKafkaNotifier(producer *infra.KafkaProducer, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, logger: logger}
}

func (n *KafkaNotifier) Notify(ctx context.Context, recipientID uuid.UUID, kind domain.NotificationKind, payload any) error {
	body, err := json.Marshal(map[string]any{
		"recipient_id": recipientID,
		"kind":         kind,
		"payload":      payload,
	})
	if err != nil {
		return err
	}

	topic := "clubsure.notifications." + string(kind)
	return n.producer.Publish(ctx, topic, []byte(recipientID.String()), body)
}

// LogNotifier writes notification requests to the log. Used when no
// broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, recipientID uuid.UUID, kind domain.NotificationKind, payload any) error {
	n.logger.Info("notification", "recipient_id", recipientID, "kind", kind, "payload", payload)
	return nil
}
