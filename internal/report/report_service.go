package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/advance"
	"github.com/mikexportit-jpg/attendance/internal/attendance"
	"github.com/mikexportit-jpg/attendance/internal/breaksession"
	"github.com/mikexportit-jpg/attendance/internal/deduction"
	reporterrors "github.com/mikexportit-jpg/attendance/internal/report/errors"
	"github.com/mikexportit-jpg/attendance/internal/schedule"
	"github.com/mikexportit-jpg/attendance/internal/user"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Daily(ctx context.Context, userID string, from, to time.Time) ([]DailyRow, error)
	Weekly(ctx context.Context, userID string, from, to time.Time) ([]WeeklyRow, error)
	Monthly(ctx context.Context, userID string, year int, month time.Month) (MonthlyPayrollDTO, error)
	MonthlyAll(ctx context.Context, year int, month time.Month) ([]MonthlyPayrollDTO, error)
	Payslip(ctx context.Context, userID string, year int, month time.Month) ([]byte, error)
	ExportMonthlyXLSX(ctx context.Context, year int, month time.Month) (*excelize.File, error)
	Overtime(ctx context.Context, userID string, from, to time.Time) ([]OvertimeRow, error)
	Dashboard(ctx context.Context, userID string) (DashboardDTO, error)
	ManagerDashboard(ctx context.Context) (ManagerDashboardDTO, error)
}

type service struct {
	attendanceRepo attendance.Repository
	breakRepo      breaksession.Repository
	deductionRepo  deduction.Repository
	advanceRepo    advance.Repository
	userRepo       user.Repository
	policy         schedule.Policy
	cache          *Cache
	group          singleflight.Group
	now            func() time.Time
	logger         *zap.Logger
}

func NewService(
	attendanceRepo attendance.Repository,
	breakRepo breaksession.Repository,
	deductionRepo deduction.Repository,
	advanceRepo advance.Repository,
	userRepo user.Repository,
	policy schedule.Policy,
	cache *Cache,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		attendanceRepo: attendanceRepo,
		breakRepo:      breakRepo,
		deductionRepo:  deductionRepo,
		advanceRepo:    advanceRepo,
		userRepo:       userRepo,
		policy:         policy,
		cache:          cache,
		now:            time.Now,
		logger:         l,
	}
}

func (s *service) Daily(ctx context.Context, userID string, from, to time.Time) ([]DailyRow, error) {
	sessions, err := s.attendanceRepo.FindByRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	byDate := GroupByDate(sessions)
	rows := make([]DailyRow, 0, len(byDate))
	for date, group := range byDate {
		rows = append(rows, DailyRow{
			Date:      date,
			TotalsDTO: mapTotals(AggregateFinalized(group)),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows, nil
}

func (s *service) Weekly(ctx context.Context, userID string, from, to time.Time) ([]WeeklyRow, error) {
	sessions, err := s.attendanceRepo.FindByRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	byWeek := GroupByISOWeek(sessions)
	rows := make([]WeeklyRow, 0, len(byWeek))
	for k, group := range byWeek {
		rows = append(rows, WeeklyRow{
			Year:      k.Year,
			Week:      k.Week,
			TotalsDTO: mapTotals(AggregateFinalized(group)),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Week < rows[j].Week
	})
	return rows, nil
}

// Monthly derives the payroll record for one user and month. Results are
// cached briefly in redis; concurrent identical requests share one
// computation through singleflight.
func (s *service) Monthly(ctx context.Context, userID string, year int, month time.Month) (MonthlyPayrollDTO, error) {
	if dto, ok := s.cache.GetMonthly(ctx, userID, year, month); ok {
		return *dto, nil
	}

	key := fmt.Sprintf("monthly:%s:%04d-%02d", userID, year, int(month))
	v, err, _ := s.group.Do(key, func() (any, error) {
		dto, err := s.computeMonthly(ctx, userID, year, month)
		if err != nil {
			return MonthlyPayrollDTO{}, err
		}
		if err := s.cache.SetMonthly(ctx, dto, year, month); err != nil {
			s.logger.Warn("monthly report cache write failed", zap.Error(err))
		}
		return dto, nil
	})
	if err != nil {
		return MonthlyPayrollDTO{}, err
	}
	return v.(MonthlyPayrollDTO), nil
}

func (s *service) computeMonthly(ctx context.Context, userID string, year int, month time.Month) (MonthlyPayrollDTO, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MonthlyPayrollDTO{}, reporterrors.ErrUserNotFound
		}
		return MonthlyPayrollDTO{}, err
	}

	from, to := monthBounds(year, month)

	sessions, err := s.attendanceRepo.FindByRange(ctx, userID, from, to)
	if err != nil {
		return MonthlyPayrollDTO{}, err
	}
	deductions, err := s.deductionRepo.SumByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return MonthlyPayrollDTO{}, err
	}
	advances, err := s.advanceRepo.SumByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return MonthlyPayrollDTO{}, err
	}

	totals := AggregateFinalized(sessions)
	record := ComputeMonthlyPayroll(s.policy, userID, u.SalaryPerMonth, year, month, totals, deductions, advances)
	return mapPayroll(record, u.Name), nil
}

func (s *service) MonthlyAll(ctx context.Context, year int, month time.Month) ([]MonthlyPayrollDTO, error) {
	users, err := s.userRepo.FindAll(ctx, "")
	if err != nil {
		return nil, err
	}

	rows := make([]MonthlyPayrollDTO, 0, len(users))
	for _, u := range users {
		dto, err := s.Monthly(ctx, u.ID.String(), year, month)
		if err != nil {
			return nil, err
		}
		rows = append(rows, dto)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserName < rows[j].UserName })
	return rows, nil
}

// Payslip renders one user's monthly record as a small text PDF.
func (s *service) Payslip(ctx context.Context, userID string, year int, month time.Month) ([]byte, error) {
	dto, err := s.Monthly(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	lines := []string{
		fmt.Sprintf("Payslip %s", dto.Period),
		fmt.Sprintf("Employee: %s", dto.UserName),
		"",
		fmt.Sprintf("Expected hours:  %.2f", dto.ExpectedHours),
		fmt.Sprintf("Hourly rate:     %.2f", dto.HourlyRate),
		fmt.Sprintf("Regular hours:   %.2f", dto.RegularHours),
		fmt.Sprintf("Overtime hours:  %.2f", dto.OvertimeHours),
		fmt.Sprintf("Regular pay:     %.2f", dto.RegularPay),
		fmt.Sprintf("Overtime pay:    %.2f", dto.OvertimePay),
		fmt.Sprintf("Gross pay:       %.2f", dto.GrossPay),
		fmt.Sprintf("Deductions:      -%.2f", dto.Deductions),
		fmt.Sprintf("Advances:        -%.2f", dto.Advances),
		"",
		fmt.Sprintf("Net pay:         %.2f", dto.NetPay),
	}
	return buildPayslipPDF(lines)
}

// ExportMonthlyXLSX renders the company-wide monthly report with a summary
// block under the per-user rows.
func (s *service) ExportMonthlyXLSX(ctx context.Context, year int, month time.Month) (*excelize.File, error) {
	rows, err := s.MonthlyAll(ctx, year, month)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []any{
		"employee", "regular_hours", "overtime_hours", "late_minutes",
		"regular_pay", "overtime_pay", "gross_pay", "deductions", "advances", "net_pay",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	var totalGross, totalNet, totalDeductions, totalAdvances float64
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			r.UserName, r.RegularHours, r.OvertimeHours, r.LateMinutes,
			r.RegularPay, r.OvertimePay, r.GrossPay, r.Deductions, r.Advances, r.NetPay,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
		totalGross += r.GrossPay
		totalNet += r.NetPay
		totalDeductions += r.Deductions
		totalAdvances += r.Advances
	}

	summaryStart := len(rows) + 3
	summary := [][]any{
		{"TOTALS", ""},
		{"gross_pay", round2(totalGross)},
		{"deductions", round2(totalDeductions)},
		{"advances", round2(totalAdvances)},
		{"net_pay", round2(totalNet)},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, summaryStart+i)
		if err != nil {
			return nil, err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (s *service) Overtime(ctx context.Context, userID string, from, to time.Time) ([]OvertimeRow, error) {
	sessions, err := s.attendanceRepo.FindByRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]OvertimeRow, 0)
	for _, a := range sessions {
		if a.ClockOut == nil || a.OvertimeHours <= 0 {
			continue
		}
		uid := ""
		if a.UserID != nil {
			uid = a.UserID.String()
		}
		rows = append(rows, OvertimeRow{
			UserID:        uid,
			Date:          a.Date.Format("2006-01-02"),
			ClockIn:       a.ClockIn.String(),
			ClockOut:      a.ClockOut.String(),
			OvertimeHours: round2(a.OvertimeHours),
		})
	}
	return rows, nil
}

// Dashboard reports today's live figures for one user, counting an open
// session against now.
func (s *service) Dashboard(ctx context.Context, userID string) (DashboardDTO, error) {
	now := s.now().UTC()
	today := dateOnly(now)

	sessions, err := s.attendanceRepo.FindByRange(ctx, userID, today, today)
	if err != nil {
		return DashboardDTO{}, err
	}

	clockedIn := false
	for _, a := range sessions {
		if a.ClockOut == nil {
			clockedIn = true
			break
		}
	}

	onBreak := false
	if _, err := s.breakRepo.FindOpenByUserAndDate(ctx, userID, today); err == nil {
		onBreak = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return DashboardDTO{}, err
	}

	return DashboardDTO{
		Live:      mapTotals(AggregateSessions(sessions, now)),
		OnBreak:   onBreak,
		ClockedIn: clockedIn,
	}, nil
}

func (s *service) ManagerDashboard(ctx context.Context) (ManagerDashboardDTO, error) {
	now := s.now().UTC()
	today := dateOnly(now)

	employees, err := s.userRepo.CountByRole(ctx, user.RoleEmployee)
	if err != nil {
		return ManagerDashboardDTO{}, err
	}
	clockIns, err := s.attendanceRepo.CountByDate(ctx, today)
	if err != nil {
		return ManagerDashboardDTO{}, err
	}
	open, err := s.attendanceRepo.CountOpenByDate(ctx, today)
	if err != nil {
		return ManagerDashboardDTO{}, err
	}

	sessions, err := s.attendanceRepo.FindByRange(ctx, "", today, today)
	if err != nil {
		return ManagerDashboardDTO{}, err
	}
	totals := AggregateFinalized(sessions)

	return ManagerDashboardDTO{
		TotalEmployees: employees,
		TodayClockIns:  clockIns,
		TodayOpen:      open,
		TodayOvertime:  round2(totals.OvertimeHours),
	}, nil
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
