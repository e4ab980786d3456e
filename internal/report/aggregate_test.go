package report

import (
	"testing"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/attendance"
	"github.com/mikexportit-jpg/attendance/internal/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func session(date time.Time, in, out string, overtime float64, late int) attendance.Attendance {
	uid := uuid.New()
	a := attendance.Attendance{
		ID:            uuid.New(),
		UserID:        &uid,
		Date:          date,
		ClockIn:       mustTimeOfDay(in),
		OvertimeHours: overtime,
		LateMinutes:   late,
		Source:        attendance.SourceWeb,
	}
	if out != "" {
		t := mustTimeOfDay(out)
		a.ClockOut = &t
	}
	return a
}

func mustTimeOfDay(s string) schedule.TimeOfDay {
	t, err := time.Parse("15:04", s)
	if err != nil {
		panic(err)
	}
	return schedule.TimeOfDayFrom(t)
}

func TestAggregateFinalized(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	totals := AggregateFinalized([]attendance.Attendance{
		session(monday, "10:00", "19:00", 0, 0),
		session(monday.AddDate(0, 0, 1), "10:15", "19:30", 0.5, 15),
		session(monday.AddDate(0, 0, 2), "10:00", "", 0, 0), // open, excluded
	})

	assert.InDelta(t, 17.75, totals.RegularHours, 1e-9)
	assert.InDelta(t, 0.5, totals.OvertimeHours, 1e-9)
	assert.InDelta(t, 18.25, totals.TotalHours, 1e-9)
	assert.Equal(t, 15, totals.LateMinutes)
	assert.False(t, totals.Anomalous)
}

func TestAggregateSessionsMeasuresOpenAgainstNow(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

	totals := AggregateSessions([]attendance.Attendance{
		session(monday, "10:00", "", 0, 0),
	}, now)

	assert.InDelta(t, 4.5, totals.TotalHours, 1e-9)
	assert.InDelta(t, 4.5, totals.RegularHours, 1e-9)
}

func TestAggregateClampsRegularAtZero(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// Stored overtime larger than the session's wall-clock duration.
	totals := AggregateFinalized([]attendance.Attendance{
		session(monday, "18:00", "19:00", 2.0, 0),
	})

	assert.InDelta(t, 0, totals.RegularHours, 1e-9)
	assert.InDelta(t, 2.0, totals.OvertimeHours, 1e-9)
	assert.True(t, totals.Anomalous)
}

func TestGroupByISOWeek(t *testing.T) {
	// Sunday 2025-06-01 belongs to the previous ISO week; Monday 2025-06-02
	// starts week 23.
	sunday := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	groups := GroupByISOWeek([]attendance.Attendance{
		session(sunday, "11:00", "13:00", 2.0, 0),
		session(monday, "10:00", "19:00", 0, 0),
		session(monday.AddDate(0, 0, 4), "10:00", "19:00", 0, 0),
	})

	assert.Len(t, groups, 2)
	assert.Len(t, groups[WeekKey{Year: 2025, Week: 22}], 1)
	assert.Len(t, groups[WeekKey{Year: 2025, Week: 23}], 2)
}

func TestGroupByDate(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	groups := GroupByDate([]attendance.Attendance{
		session(monday, "10:00", "14:00", 0, 0),
		session(monday, "15:00", "19:00", 0, 0),
		session(monday.AddDate(0, 0, 1), "10:00", "19:00", 0, 0),
	})

	assert.Len(t, groups, 2)
	assert.Len(t, groups["2025-06-02"], 2)
	assert.Len(t, groups["2025-06-03"], 1)
}
