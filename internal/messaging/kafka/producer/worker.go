package producer

import (
	"context"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// outboxBatchSize bounds one drain pass so a large attendance import does
// not hold the poll loop for a full interval.
const outboxBatchSize = 50

// ProcessOutboxEvents polls the outbox table and relays pending attendance
// events to Kafka until ctx is cancelled. Failed publishes are retried with
// backoff driven by next_retry_at.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := drainPending(ctx, repo, writer, log); err != nil {
				log.Error("drain outbox failed", zap.Error(err))
			}
		}
	}
}

func drainPending(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
) error {
	events, err := repo.ListPending(ctx, outboxBatchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	sent, failed := 0, 0
	for _, event := range events {
		if err := publishEvent(ctx, writer, event); err != nil {
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, event.ID, err.Error())
			failed++
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			failed++
			continue
		}
		sent++
	}

	logger.Info("outbox batch drained",
		zap.Int("pending", len(events)),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)

	return nil
}
