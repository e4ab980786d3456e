package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikexportit-jpg/attendance/internal/events"
	"github.com/mikexportit-jpg/attendance/internal/messaging/kafka/consumer"
	"github.com/mikexportit-jpg/attendance/internal/report"
	"github.com/mikexportit-jpg/attendance/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer keeps the redis report cache coherent with clock activity
// and bulk imports.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	defer rdb.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	reportCache := report.NewCache(rdb)

	activityReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.AttendanceActivityTopic,
		GroupID:        "attendance-report-cache",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer activityReader.Close()

	importReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.AttendanceImportedTopic,
		GroupID:        "attendance-report-cache",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer importReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeAttendanceActivity(ctx, activityReader, reportCache, logger)
	go consumer.ConsumeAttendanceImports(ctx, importReader, reportCache, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
