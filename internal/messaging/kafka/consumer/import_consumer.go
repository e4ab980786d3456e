package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeAttendanceImports evicts cached aggregates for every user touched
// by a bulk import. An import can rewrite history, so all months in the
// current year are dropped for the listed users.
func ConsumeAttendanceImports(
	ctx context.Context,
	reader *kafkago.Reader,
	cache CacheInvalidator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_imports")
	log.Info("attendance import consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance import consumer stopped")
				return
			}
			log.Error("fetch attendance import message failed", zap.Error(err))
			continue
		}

		var event events.AttendanceImportedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode attendance imported event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		year := event.OccurredAt.Year()
		failed := false
		for _, userID := range event.UserIDs {
			for month := time.January; month <= time.December; month++ {
				if err := cache.InvalidateMonth(ctx, userID, year, month); err != nil {
					log.Error("invalidate report cache after import failed",
						zap.String("user_id", userID),
						zap.Error(err),
					)
					failed = true
					break
				}
			}
		}
		if failed {
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance import message failed", zap.Error(err))
			continue
		}

		log.Info("report caches invalidated after import",
			zap.Int("users", len(event.UserIDs)),
			zap.Int("imported", event.Imported),
		)
	}
}
