package schedule

import "time"

// Window is the official working window for one weekday.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Hours is the window length in fractional hours.
func (w Window) Hours() float64 {
	return float64(w.End.Sub(w.Start)) / 60
}

// Policy is the per-tenant work schedule. A weekday absent from Days (or
// mapped to nil) is a rest day: it has no official window and every worked
// minute on it counts as overtime.
//
// Policies are plain values passed into the calculators; nothing in this
// package keeps process-wide schedule state.
type Policy struct {
	Days                  map[time.Weekday]*Window
	GraceMinutes          int
	BreakAllowanceMinutes int
	BreakRatePerMinute    float64
	OvertimeMultiplier    float64
}

// DefaultPolicy: Mon-Fri 10:00-19:00, Saturday 10:00-15:00, Sunday rest.
// Ten minutes of lateness grace, one hour of paid break, $1 per excess
// break minute, overtime paid at 1.5x.
func DefaultPolicy() Policy {
	weekWindow := Window{Start: NewTimeOfDay(10, 0), End: NewTimeOfDay(19, 0)}
	return Policy{
		Days: map[time.Weekday]*Window{
			time.Monday:    {Start: weekWindow.Start, End: weekWindow.End},
			time.Tuesday:   {Start: weekWindow.Start, End: weekWindow.End},
			time.Wednesday: {Start: weekWindow.Start, End: weekWindow.End},
			time.Thursday:  {Start: weekWindow.Start, End: weekWindow.End},
			time.Friday:    {Start: weekWindow.Start, End: weekWindow.End},
			time.Saturday:  {Start: NewTimeOfDay(10, 0), End: NewTimeOfDay(15, 0)},
		},
		GraceMinutes:          10,
		BreakAllowanceMinutes: 60,
		BreakRatePerMinute:    1.0,
		OvertimeMultiplier:    1.5,
	}
}

// WindowFor returns the working window for a date, or nil on rest days.
func (p Policy) WindowFor(date time.Time) *Window {
	return p.Days[date.Weekday()]
}

// ExpectedMonthlyHours sums the scheduled window length over every calendar
// day of the month. Under the default policy that is 9 hours per weekday,
// 5 per Saturday and 0 per Sunday. Used as the payroll hourly-rate
// denominator.
func (p Policy) ExpectedMonthlyHours(year int, month time.Month) float64 {
	total := 0.0
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if w := p.Days[d.Weekday()]; w != nil {
			total += w.Hours()
		}
	}
	return total
}
