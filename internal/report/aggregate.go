package report

import (
	"time"

	"github.com/mikexportit-jpg/attendance/internal/attendance"
	"github.com/mikexportit-jpg/attendance/internal/schedule"
)

// SessionTotals sums a set of sessions for one user and period.
type SessionTotals struct {
	RegularHours  float64
	OvertimeHours float64
	TotalHours    float64
	LateMinutes   int

	// Anomalous is set when stored overtime exceeded a session's wall-clock
	// duration and regular hours had to be clamped at zero.
	Anomalous bool
}

// AggregateSessions sums sessions including open ones, which are measured
// against now. Use it for live dashboard figures only; finalized reports go
// through AggregateFinalized.
func AggregateSessions(sessions []attendance.Attendance, now time.Time) SessionTotals {
	var t SessionTotals
	nowTime := schedule.TimeOfDayFrom(now)

	for _, s := range sessions {
		end := s.ClockOut
		if end == nil {
			end = &nowTime
		}
		addSession(&t, s, *end)
	}
	return t
}

// AggregateFinalized sums closed sessions only.
func AggregateFinalized(sessions []attendance.Attendance) SessionTotals {
	var t SessionTotals
	for _, s := range sessions {
		if s.ClockOut == nil {
			continue
		}
		addSession(&t, s, *s.ClockOut)
	}
	return t
}

func addSession(t *SessionTotals, s attendance.Attendance, end schedule.TimeOfDay) {
	total := float64(end.Sub(s.ClockIn)) / 60
	if total < 0 {
		total = 0
	}

	regular := total - s.OvertimeHours
	if regular < 0 {
		regular = 0
		t.Anomalous = true
	}

	t.TotalHours += total
	t.RegularHours += regular
	t.OvertimeHours += s.OvertimeHours
	t.LateMinutes += s.LateMinutes
}

// WeekKey identifies a Monday-start ISO week.
type WeekKey struct {
	Year int
	Week int
}

// GroupByISOWeek buckets sessions into ISO weeks by date.
func GroupByISOWeek(sessions []attendance.Attendance) map[WeekKey][]attendance.Attendance {
	out := make(map[WeekKey][]attendance.Attendance)
	for _, s := range sessions {
		y, w := s.Date.ISOWeek()
		k := WeekKey{Year: y, Week: w}
		out[k] = append(out[k], s)
	}
	return out
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

func GroupByMonth(sessions []attendance.Attendance) map[MonthKey][]attendance.Attendance {
	out := make(map[MonthKey][]attendance.Attendance)
	for _, s := range sessions {
		k := MonthKey{Year: s.Date.Year(), Month: s.Date.Month()}
		out[k] = append(out[k], s)
	}
	return out
}

// GroupByDate buckets sessions per calendar day.
func GroupByDate(sessions []attendance.Attendance) map[string][]attendance.Attendance {
	out := make(map[string][]attendance.Attendance)
	for _, s := range sessions {
		k := s.Date.Format("2006-01-02")
		out[k] = append(out[k], s)
	}
	return out
}
