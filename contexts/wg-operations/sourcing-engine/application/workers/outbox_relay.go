package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "aucta/contexts/wg-operations/sourcing-engine/application"
	"aucta/contexts/wg-operations/sourcing-engine/ports"
)

// Publisher is the bus surface the relay needs; the platform messaging
// adapters (in-process and kafka) both satisfy it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event ports.EventEnvelope) error
}

// OutboxRelay drains pending outbox rows and publishes them to the bus.
// Rows are marked published only after a successful publish, so delivery is
// at-least-once.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher Publisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	batch := r.BatchSize
	if batch <= 0 {
		batch = 100
	}

	messages, err := r.Outbox.ListPendingOutbox(ctx, batch)
	if err != nil {
		logger.Error("outbox poll failed",
			"event", "sourcing_outbox_poll_failed",
			"module", "wg-operations/sourcing-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, message := range messages {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload corrupt",
				"event", "sourcing_outbox_payload_corrupt",
				"module", "wg-operations/sourcing-engine",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			continue
		}
		if err := r.Publisher.Publish(ctx, r.Topic, envelope); err != nil {
			return err
		}
		now := time.Now().UTC()
		if r.Clock != nil {
			now = r.Clock.Now().UTC()
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.OutboxID, now); err != nil {
			return err
		}
	}
	return nil
}
