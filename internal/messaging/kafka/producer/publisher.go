package producer

import (
	"context"

	"github.com/mikexportit-jpg/attendance/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// publishEvent keys the message by aggregate id so all events for one user's
// attendance stream land on the same partition, in order.
func publishEvent(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
			{Key: "request_id", Value: []byte(event.RequestID)},
			{Key: "origin", Value: []byte("attendance-worker")},
		},
	}

	return writer.WriteMessages(ctx, msg)
}
