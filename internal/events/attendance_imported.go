package events

import "time"

const (
	AttendanceImportedTopic = "attendance.import.v1"

	EventTypeAttendanceImported = "attendance.imported"
)

// AttendanceImportedEvent is emitted after a bulk xlsx import commits.
// Consumers use it to drop cached report aggregates for the touched users.
type AttendanceImportedEvent struct {
	EventType  string    `json:"event_type"`
	ImportedBy string    `json:"imported_by"`
	UserIDs    []string  `json:"user_ids"`
	Imported   int       `json:"imported"`
	Skipped    int       `json:"skipped"`
	OccurredAt time.Time `json:"occurred_at"`
}
