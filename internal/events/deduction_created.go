package events

import "time"

const DeductionCreatedTopic = "attendance.deduction.v1"

type DeductionCreatedEvent struct {
	EventType   string    `json:"event_type"`
	DeductionID string    `json:"deduction_id"`
	UserID      string    `json:"user_id"`
	Amount      float64   `json:"amount"`
	Reason      string    `json:"reason"`
	OccurredAt  time.Time `json:"occurred_at"`
}
