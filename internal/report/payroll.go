package report

import (
	"time"

	"github.com/mikexportit-jpg/attendance/internal/schedule"
)

// MonthlyPayrollRecord is derived on demand from sessions, deductions and
// advances. Nothing is persisted; recomputing from the same inputs always
// yields the same record.
type MonthlyPayrollRecord struct {
	UserID        string
	Year          int
	Month         time.Month
	ExpectedHours float64
	HourlyRate    float64
	OvertimeRate  float64
	RegularHours  float64
	OvertimeHours float64
	RegularPay    float64
	OvertimePay   float64
	GrossPay      float64
	Deductions    float64
	Advances      float64
	NetPay        float64
	LateMinutes   int
	Anomalous     bool
}

// ComputeMonthlyPayroll derives pay from aggregated session totals. All
// figures keep full float64 precision; rounding happens in the DTO mapping.
func ComputeMonthlyPayroll(
	policy schedule.Policy,
	userID string,
	salary float64,
	year int,
	month time.Month,
	totals SessionTotals,
	deductions float64,
	advances float64,
) MonthlyPayrollRecord {
	expected := policy.ExpectedMonthlyHours(year, month)

	hourlyRate := 0.0
	if expected > 0 {
		hourlyRate = salary / expected
	}
	overtimeRate := hourlyRate * policy.OvertimeMultiplier

	regularPay := totals.RegularHours * hourlyRate
	overtimePay := totals.OvertimeHours * overtimeRate
	gross := regularPay + overtimePay

	return MonthlyPayrollRecord{
		UserID:        userID,
		Year:          year,
		Month:         month,
		ExpectedHours: expected,
		HourlyRate:    hourlyRate,
		OvertimeRate:  overtimeRate,
		RegularHours:  totals.RegularHours,
		OvertimeHours: totals.OvertimeHours,
		RegularPay:    regularPay,
		OvertimePay:   overtimePay,
		GrossPay:      gross,
		Deductions:    deductions,
		Advances:      advances,
		NetPay:        gross - deductions - advances,
		LateMinutes:   totals.LateMinutes,
		Anomalous:     totals.Anomalous,
	}
}
