package breaksession

import (
	"time"

	"github.com/mikexportit-jpg/attendance/internal/schedule"

	"github.com/google/uuid"
)

type BreakSession struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	AttendanceID *uuid.UUID             `gorm:"column:attendance_id;type:uuid;index"`
	Date         time.Time              `gorm:"column:date;type:date;not null;index"`
	StartTime    schedule.TimeOfDay     `gorm:"column:start_time;not null"`
	EndTime      *schedule.TimeOfDay    `gorm:"column:end_time"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (BreakSession) TableName() string {
	return "break_sessions"
}

// DurationMinutes is end minus start; an open break counts as zero.
func (b BreakSession) DurationMinutes() int {
	if b.EndTime == nil {
		return 0
	}
	return b.EndTime.Sub(b.StartTime)
}

// TotalMinutes sums all closed breaks. Open breaks are excluded rather than
// rejected: they stay dangling for manual resolution and never poison a
// clock-out.
func TotalMinutes(breaks []BreakSession) int {
	total := 0
	for _, b := range breaks {
		total += b.DurationMinutes()
	}
	return total
}

// OverageDeduction is the monetary penalty for break time beyond the
// allowance: max(0, total-allowance) * rate.
func OverageDeduction(totalMinutes, allowanceMinutes int, ratePerMinute float64) float64 {
	extra := totalMinutes - allowanceMinutes
	if extra <= 0 {
		return 0
	}
	return float64(extra) * ratePerMinute
}
