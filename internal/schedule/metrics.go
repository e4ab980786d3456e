package schedule

import (
	"math"
	"time"
)

// Metrics are the derived attendance figures for one closed session.
type Metrics struct {
	OvertimeHours float64
	LateMinutes   int
}

// ComputeMetrics derives overtime and lateness for a single clock-in /
// clock-out pair on a date. It is pure: same inputs, same outputs, no
// persistence access.
//
// Rules:
//   - An open session (either side nil) yields zero metrics.
//   - On a rest day the whole session duration is overtime and lateness is
//     never counted, regardless of the clock-in time.
//   - On a scheduled day, arriving before the official start adds the early
//     span to overtime; arriving after the grace boundary counts lateness
//     measured from the official start. The two are mutually exclusive on
//     the clock-in edge.
//   - Leaving after the official end adds the late span to overtime, on top
//     of any early-arrival overtime.
//
// Overtime is rounded to 2 decimal places once, after both edges are summed.
func ComputeMetrics(p Policy, date time.Time, clockIn, clockOut *TimeOfDay) Metrics {
	if clockIn == nil || clockOut == nil {
		return Metrics{}
	}

	w := p.WindowFor(date)
	if w == nil {
		return Metrics{
			OvertimeHours: round2(float64(clockOut.Sub(*clockIn)) / 60),
		}
	}

	grace := w.Start + TimeOfDay(p.GraceMinutes)

	var overtimeHours float64
	var lateMinutes int

	if *clockIn < w.Start {
		overtimeHours += float64(w.Start.Sub(*clockIn)) / 60
	} else if *clockIn > grace {
		lateMinutes = clockIn.Sub(w.Start)
	}

	if *clockOut > w.End {
		overtimeHours += float64(clockOut.Sub(w.End)) / 60
	}

	return Metrics{
		OvertimeHours: round2(overtimeHours),
		LateMinutes:   lateMinutes,
	}
}

// ClockInMetrics is the provisional figure recorded when a session opens.
// Only the clock-in edge is known, so it carries early-arrival overtime and
// lateness; rest-day overtime is settled at clock-out when the duration
// exists.
func ClockInMetrics(p Policy, date time.Time, clockIn TimeOfDay) Metrics {
	w := p.WindowFor(date)
	if w == nil {
		return Metrics{}
	}

	grace := w.Start + TimeOfDay(p.GraceMinutes)

	m := Metrics{}
	if clockIn < w.Start {
		m.OvertimeHours = round2(float64(w.Start.Sub(clockIn)) / 60)
	} else if clockIn > grace {
		m.LateMinutes = clockIn.Sub(w.Start)
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
