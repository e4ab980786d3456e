package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/advance"
	"github.com/mikexportit-jpg/attendance/internal/attendance"
	"github.com/mikexportit-jpg/attendance/internal/breaksession"
	"github.com/mikexportit-jpg/attendance/internal/deduction"
	"github.com/mikexportit-jpg/attendance/internal/schedule"
	"github.com/mikexportit-jpg/attendance/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeAttendanceRepo struct {
	attendance.Repository
	findByRangeFn     func(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error)
	countByDateFn     func(ctx context.Context, date time.Time) (int64, error)
	countOpenByDateFn func(ctx context.Context, date time.Time) (int64, error)
}

func (f *fakeAttendanceRepo) FindByRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	return f.findByRangeFn(ctx, userID, from, to)
}
func (f *fakeAttendanceRepo) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	return f.countByDateFn(ctx, date)
}
func (f *fakeAttendanceRepo) CountOpenByDate(ctx context.Context, date time.Time) (int64, error) {
	return f.countOpenByDateFn(ctx, date)
}

type fakeBreakRepo struct {
	breaksession.Repository
	findOpenFn func(ctx context.Context, userID string, date time.Time) (*breaksession.BreakSession, error)
}

func (f *fakeBreakRepo) FindOpenByUserAndDate(ctx context.Context, userID string, date time.Time) (*breaksession.BreakSession, error) {
	return f.findOpenFn(ctx, userID, date)
}

type fakeDeductionRepo struct {
	deduction.Repository
	sum float64
}

func (f *fakeDeductionRepo) SumByUserAndRange(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	return f.sum, nil
}

type fakeAdvanceRepo struct {
	advance.Repository
	sum float64
}

func (f *fakeAdvanceRepo) SumByUserAndRange(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	return f.sum, nil
}

type fakeUserRepo struct {
	user.Repository
	findByIDFn    func(ctx context.Context, id string) (*user.User, error)
	findAllFn     func(ctx context.Context, nameQuery string) ([]user.User, error)
	countByRoleFn func(ctx context.Context, role string) (int64, error)
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeUserRepo) FindAll(ctx context.Context, nameQuery string) ([]user.User, error) {
	return f.findAllFn(ctx, nameQuery)
}
func (f *fakeUserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	return f.countByRoleFn(ctx, role)
}

func newTestService(
	att *fakeAttendanceRepo,
	brk *fakeBreakRepo,
	ded *fakeDeductionRepo,
	adv *fakeAdvanceRepo,
	users *fakeUserRepo,
	now time.Time,
) *service {
	return &service{
		attendanceRepo: att,
		breakRepo:      brk,
		deductionRepo:  ded,
		advanceRepo:    adv,
		userRepo:       users,
		policy:         schedule.DefaultPolicy(),
		cache:          nil,
		now:            func() time.Time { return now },
		logger:         zap.NewNop(),
	}
}

func testUser(name string, salary float64) *user.User {
	return &user.User{ID: uuid.New(), Name: name, SalaryPerMonth: salary}
}

func TestService_MonthlyComputesPayroll(t *testing.T) {
	// June 2025 under the default schedule: 21 weekdays * 9h + 4 Saturdays
	// * 5h = 209 expected hours. Salary 2090 gives a clean 10.00 rate.
	u := testUser("Alice", 2090)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	att := &fakeAttendanceRepo{
		findByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
			assert.Equal(t, u.ID.String(), userID)
			assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), from)
			assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), to)
			return []attendance.Attendance{
				session(monday, "10:00", "19:00", 0, 0),
				session(monday.AddDate(0, 0, 1), "10:00", "19:30", 0.5, 0),
			}, nil
		},
	}
	users := &fakeUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*user.User, error) { return u, nil },
	}
	svc := newTestService(att, nil, &fakeDeductionRepo{sum: 15}, &fakeAdvanceRepo{sum: 5}, users, monday)

	dto, err := svc.Monthly(context.Background(), u.ID.String(), 2025, time.June)

	assert.NoError(t, err)
	assert.Equal(t, "2025-06", dto.Period)
	assert.Equal(t, "Alice", dto.UserName)
	assert.InDelta(t, 209, dto.ExpectedHours, 1e-9)
	assert.InDelta(t, 10.0, dto.HourlyRate, 1e-9)
	assert.InDelta(t, 18.0, dto.RegularHours, 1e-9)
	assert.InDelta(t, 0.5, dto.OvertimeHours, 1e-9)
	assert.InDelta(t, 180.0, dto.RegularPay, 1e-9)
	assert.InDelta(t, 7.5, dto.OvertimePay, 1e-9)
	assert.InDelta(t, 187.5, dto.GrossPay, 1e-9)
	assert.InDelta(t, 167.5, dto.NetPay, 1e-9)
}

func TestService_MonthlyUnknownUser(t *testing.T) {
	users := &fakeUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(nil, nil, &fakeDeductionRepo{}, &fakeAdvanceRepo{}, users, time.Now())

	_, err := svc.Monthly(context.Background(), uuid.NewString(), 2025, time.June)

	assert.Error(t, err)
}

func TestService_DailySortsAscending(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	att := &fakeAttendanceRepo{
		findByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
			return []attendance.Attendance{
				session(monday.AddDate(0, 0, 2), "10:00", "19:00", 0, 0),
				session(monday, "10:00", "19:00", 0, 0),
			}, nil
		},
	}
	svc := newTestService(att, nil, &fakeDeductionRepo{}, &fakeAdvanceRepo{}, nil, monday)

	rows, err := svc.Daily(context.Background(), "u1", monday, monday.AddDate(0, 0, 6))

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "2025-06-02", rows[0].Date)
	assert.Equal(t, "2025-06-04", rows[1].Date)
}

func TestService_OvertimeSkipsRegularSessions(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	att := &fakeAttendanceRepo{
		findByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
			return []attendance.Attendance{
				session(monday, "10:00", "19:00", 0, 0),
				session(monday.AddDate(0, 0, 1), "10:00", "20:00", 1.0, 0),
				session(monday.AddDate(0, 0, 2), "10:00", "", 0, 0),
			}, nil
		},
	}
	svc := newTestService(att, nil, &fakeDeductionRepo{}, &fakeAdvanceRepo{}, nil, monday)

	rows, err := svc.Overtime(context.Background(), "", monday, monday.AddDate(0, 0, 6))

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "2025-06-03", rows[0].Date)
	assert.InDelta(t, 1.0, rows[0].OvertimeHours, 1e-9)
}

func TestService_DashboardLiveTotals(t *testing.T) {
	now := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	att := &fakeAttendanceRepo{
		findByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
			return []attendance.Attendance{session(monday, "10:00", "", 0, 0)}, nil
		},
	}
	brk := &fakeBreakRepo{
		findOpenFn: func(ctx context.Context, userID string, date time.Time) (*breaksession.BreakSession, error) {
			return &breaksession.BreakSession{}, nil
		},
	}
	svc := newTestService(att, brk, &fakeDeductionRepo{}, &fakeAdvanceRepo{}, nil, now)

	dto, err := svc.Dashboard(context.Background(), "u1")

	assert.NoError(t, err)
	assert.True(t, dto.ClockedIn)
	assert.True(t, dto.OnBreak)
	assert.InDelta(t, 4.5, dto.Live.TotalHours, 1e-9)
}

func TestService_ManagerDashboard(t *testing.T) {
	now := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	att := &fakeAttendanceRepo{
		findByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
			assert.Empty(t, userID)
			return []attendance.Attendance{session(monday, "10:00", "20:00", 1.0, 0)}, nil
		},
		countByDateFn:     func(ctx context.Context, date time.Time) (int64, error) { return 7, nil },
		countOpenByDateFn: func(ctx context.Context, date time.Time) (int64, error) { return 3, nil },
	}
	users := &fakeUserRepo{
		countByRoleFn: func(ctx context.Context, role string) (int64, error) {
			assert.Equal(t, user.RoleEmployee, role)
			return 12, nil
		},
	}
	svc := newTestService(att, nil, &fakeDeductionRepo{}, &fakeAdvanceRepo{}, users, now)

	dto, err := svc.ManagerDashboard(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(12), dto.TotalEmployees)
	assert.Equal(t, int64(7), dto.TodayClockIns)
	assert.Equal(t, int64(3), dto.TodayOpen)
	assert.InDelta(t, 1.0, dto.TodayOvertime, 1e-9)
}

func TestService_PayslipRendersPDF(t *testing.T) {
	u := testUser("Alice", 2090)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	att := &fakeAttendanceRepo{
		findByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
			return []attendance.Attendance{session(monday, "10:00", "19:00", 0, 0)}, nil
		},
	}
	users := &fakeUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*user.User, error) { return u, nil },
	}
	svc := newTestService(att, nil, &fakeDeductionRepo{}, &fakeAdvanceRepo{}, users, monday)

	pdf, err := svc.Payslip(context.Background(), u.ID.String(), 2025, time.June)

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF-"))
	assert.Contains(t, string(pdf), "Alice")
}

func TestService_ExportMonthlyXLSX(t *testing.T) {
	a := testUser("Alice", 2090)
	b := testUser("Bob", 2090)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	byID := map[string]*user.User{a.ID.String(): a, b.ID.String(): b}

	att := &fakeAttendanceRepo{
		findByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
			return []attendance.Attendance{session(monday, "10:00", "19:00", 0, 0)}, nil
		},
	}
	users := &fakeUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*user.User, error) { return byID[id], nil },
		findAllFn: func(ctx context.Context, nameQuery string) ([]user.User, error) {
			return []user.User{*b, *a}, nil
		},
	}
	svc := newTestService(att, nil, &fakeDeductionRepo{}, &fakeAdvanceRepo{}, users, monday)

	f, err := svc.ExportMonthlyXLSX(context.Background(), 2025, time.June)

	assert.NoError(t, err)
	sheet := f.GetSheetName(0)

	header, _ := f.GetCellValue(sheet, "A1")
	assert.Equal(t, "employee", header)

	first, _ := f.GetCellValue(sheet, "A2")
	assert.Equal(t, "Alice", first) // sorted by name

	summary, _ := f.GetCellValue(sheet, "A5")
	assert.Equal(t, "TOTALS", summary)
}
