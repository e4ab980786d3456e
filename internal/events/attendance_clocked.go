package events

import "time"

const AttendanceActivityTopic = "attendance.activity.v1"

const (
	EventTypeClockIn  = "attendance.clock_in"
	EventTypeClockOut = "attendance.clock_out"
)

// AttendanceClockedEvent is emitted on every clock-in and clock-out, via
// the outbox so the write and the event share one transaction.
type AttendanceClockedEvent struct {
	EventType    string    `json:"event_type"`
	AttendanceID string    `json:"attendance_id"`
	UserID       string    `json:"user_id"`
	Date         string    `json:"date"`
	Source       string    `json:"source"`
	LateMinutes  int       `json:"late_minutes"`
	OvertimeHrs  float64   `json:"overtime_hours"`
	OccurredAt   time.Time `json:"occurred_at"`
}
