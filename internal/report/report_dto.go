package report

import (
	"fmt"
	"math"
)

type TotalsDTO struct {
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	TotalHours    float64 `json:"total_hours"`
	LateMinutes   int     `json:"late_minutes"`
	Anomalous     bool    `json:"anomalous,omitempty"`
}

type DailyRow struct {
	Date string `json:"date"`
	TotalsDTO
}

type WeeklyRow struct {
	Year int `json:"year"`
	Week int `json:"week"`
	TotalsDTO
}

type MonthlyPayrollDTO struct {
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name,omitempty"`
	Period        string  `json:"period"`
	ExpectedHours float64 `json:"expected_hours"`
	HourlyRate    float64 `json:"hourly_rate"`
	OvertimeRate  float64 `json:"overtime_rate"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	RegularPay    float64 `json:"regular_pay"`
	OvertimePay   float64 `json:"overtime_pay"`
	GrossPay      float64 `json:"gross_pay"`
	Deductions    float64 `json:"deductions"`
	Advances      float64 `json:"advances"`
	NetPay        float64 `json:"net_pay"`
	LateMinutes   int     `json:"late_minutes"`
	Anomalous     bool    `json:"anomalous,omitempty"`
}

type OvertimeRow struct {
	UserID        string  `json:"user_id"`
	Date          string  `json:"date"`
	ClockIn       string  `json:"clock_in"`
	ClockOut      string  `json:"clock_out"`
	OvertimeHours float64 `json:"overtime_hours"`
}

type DashboardDTO struct {
	Live      TotalsDTO `json:"live"`
	OnBreak   bool      `json:"on_break"`
	ClockedIn bool      `json:"clocked_in"`
}

type ManagerDashboardDTO struct {
	TotalEmployees int64   `json:"total_employees"`
	TodayClockIns  int64   `json:"today_clock_ins"`
	TodayOpen      int64   `json:"today_open_sessions"`
	TodayOvertime  float64 `json:"today_overtime_hours"`
}

// round2 is applied at the DTO boundary only; internal math keeps full
// precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mapTotals(t SessionTotals) TotalsDTO {
	return TotalsDTO{
		RegularHours:  round2(t.RegularHours),
		OvertimeHours: round2(t.OvertimeHours),
		TotalHours:    round2(t.TotalHours),
		LateMinutes:   t.LateMinutes,
		Anomalous:     t.Anomalous,
	}
}

func mapPayroll(r MonthlyPayrollRecord, name string) MonthlyPayrollDTO {
	return MonthlyPayrollDTO{
		UserID:        r.UserID,
		UserName:      name,
		Period:        fmt.Sprintf("%04d-%02d", r.Year, int(r.Month)),
		ExpectedHours: round2(r.ExpectedHours),
		HourlyRate:    round2(r.HourlyRate),
		OvertimeRate:  round2(r.OvertimeRate),
		RegularHours:  round2(r.RegularHours),
		OvertimeHours: round2(r.OvertimeHours),
		RegularPay:    round2(r.RegularPay),
		OvertimePay:   round2(r.OvertimePay),
		GrossPay:      round2(r.GrossPay),
		Deductions:    round2(r.Deductions),
		Advances:      round2(r.Advances),
		NetPay:        round2(r.NetPay),
		LateMinutes:   r.LateMinutes,
		Anomalous:     r.Anomalous,
	}
}
