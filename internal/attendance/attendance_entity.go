package attendance

import (
	"time"

	"github.com/mikexportit-jpg/attendance/internal/schedule"

	"github.com/google/uuid"
)

const (
	SourceWeb    = "WEB"
	SourceQR     = "QR"
	SourceCard   = "CARD"
	SourceImport = "IMPORT"
	SourceManual = "MANUAL"
)

// Attendance is one work session. UserID is nullable so the row survives
// a user delete with history intact.
type Attendance struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        *uuid.UUID          `gorm:"column:user_id;type:uuid;index"`
	Date          time.Time           `gorm:"column:date;type:date;not null;index"`
	ClockIn       schedule.TimeOfDay  `gorm:"column:clock_in;not null"`
	ClockOut      *schedule.TimeOfDay `gorm:"column:clock_out"`
	OvertimeHours float64             `gorm:"column:overtime_hours;not null;default:0"`
	LateMinutes   int                 `gorm:"column:late_minutes;not null;default:0"`
	Source        string              `gorm:"column:source;type:varchar(30);not null;default:WEB"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// Open reports whether the session has no clock-out yet.
func (a Attendance) Open() bool {
	return a.ClockOut == nil
}

func ValidSource(s string) bool {
	switch s {
	case SourceWeb, SourceQR, SourceCard, SourceImport, SourceManual:
		return true
	}
	return false
}
