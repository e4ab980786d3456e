package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CacheInvalidator drops cached report aggregates for a user's month.
// The report package provides the implementation.
type CacheInvalidator interface {
	InvalidateMonth(ctx context.Context, userID string, year int, month time.Month) error
}

// ConsumeAttendanceActivity reads clock events and evicts the cached
// monthly aggregates for the affected user so the next report request
// recomputes from the database.
func ConsumeAttendanceActivity(
	ctx context.Context,
	reader *kafkago.Reader,
	cache CacheInvalidator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_activity")
	log.Info("attendance activity consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance activity consumer stopped")
				return
			}
			log.Error("fetch attendance activity message failed", zap.Error(err))
			continue
		}

		var event events.AttendanceClockedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode attendance clocked event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		date, err := time.Parse("2006-01-02", event.Date)
		if err != nil {
			log.Error("bad date in attendance clocked event",
				zap.String("date", event.Date),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := cache.InvalidateMonth(ctx, event.UserID, date.Year(), date.Month()); err != nil {
			log.Error("invalidate monthly report cache failed",
				zap.String("user_id", event.UserID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance activity message failed", zap.Error(err))
			continue
		}

		log.Info("monthly report cache invalidated",
			zap.String("user_id", event.UserID),
			zap.String("event_type", event.EventType),
		)
	}
}
