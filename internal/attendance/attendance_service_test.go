package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	attendanceerrors "github.com/mikexportit-jpg/attendance/internal/attendance/errors"
	"github.com/mikexportit-jpg/attendance/internal/breaksession"
	"github.com/mikexportit-jpg/attendance/internal/deduction"
	"github.com/mikexportit-jpg/attendance/internal/messaging/kafka"
	"github.com/mikexportit-jpg/attendance/internal/schedule"
	"github.com/mikexportit-jpg/attendance/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn   func(ctx context.Context, a *Attendance) error
	updateFn   func(ctx context.Context, a *Attendance) error
	deleteFn   func(ctx context.Context, id string) error
	findByIDFn func(ctx context.Context, id string) (*Attendance, error)
	findOpenFn func(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	findDateFn func(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	findRngFn  func(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                 { return f }
func (f *fakeRepo) Create(ctx context.Context, a *Attendance) error { return f.createFn(ctx, a) }
func (f *fakeRepo) Update(ctx context.Context, a *Attendance) error { return f.updateFn(ctx, a) }
func (f *fakeRepo) Delete(ctx context.Context, id string) error     { return f.deleteFn(ctx, id) }
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Attendance, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindOpenByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	return f.findOpenFn(ctx, userID, date)
}
func (f *fakeRepo) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	return f.findDateFn(ctx, userID, date)
}
func (f *fakeRepo) FindByRange(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error) {
	return f.findRngFn(ctx, userID, from, to)
}
func (f *fakeRepo) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	return 0, nil
}
func (f *fakeRepo) CountOpenByDate(ctx context.Context, date time.Time) (int64, error) {
	return 0, nil
}

type fakeBreakRepo struct {
	breaksession.Repository
	findByRangeFn func(ctx context.Context, userID string, from, to time.Time) ([]breaksession.BreakSession, error)
}

func (f *fakeBreakRepo) FindByRange(ctx context.Context, userID string, from, to time.Time) ([]breaksession.BreakSession, error) {
	return f.findByRangeFn(ctx, userID, from, to)
}

type fakeDeductionRepo struct {
	deduction.Repository
	createFn func(ctx context.Context, d *deduction.Deduction) error
}

func (f *fakeDeductionRepo) WithTx(tx *sql.Tx) deduction.Repository { return f }
func (f *fakeDeductionRepo) Create(ctx context.Context, d *deduction.Deduction) error {
	return f.createFn(ctx, d)
}

type fakeUserRepo struct {
	user.Repository
	findByIDFn     func(ctx context.Context, id string) (*user.User, error)
	findBySerialFn func(ctx context.Context, serial string) (*user.User, error)
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeUserRepo) FindBySerialNumber(ctx context.Context, serial string) (*user.User, error) {
	return f.findBySerialFn(ctx, serial)
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, e kafka.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error             { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func noBreaks(ctx context.Context, userID string, from, to time.Time) ([]breaksession.BreakSession, error) {
	return nil, nil
}

func newTestService(db *sql.DB, repo Repository, breaks *fakeBreakRepo, deds *fakeDeductionRepo, users *fakeUserRepo, outbox *fakeOutbox, now time.Time) *service {
	svc := NewService(db, repo, breaks, deds, users, outbox, schedule.DefaultPolicy()).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

// monday 2025-06-02, a 10:00-19:00 day
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func TestService_ClockInRejectsOpenSession(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findOpenFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
			return &Attendance{ID: uuid.New()}, nil
		},
	}
	now := monday.Add(10 * time.Hour)
	svc := newTestService(db, repo, &fakeBreakRepo{}, &fakeDeductionRepo{}, &fakeUserRepo{}, &fakeOutbox{}, now)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ClockIn(context.Background(), uuid.NewString(), SourceWeb)
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClockedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockInLateProvisional(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var saved *Attendance
	repo := &fakeRepo{
		findOpenFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, a *Attendance) error { saved = a; return nil },
	}
	outbox := &fakeOutbox{}

	// 10:15, past the 10:10 grace boundary
	now := monday.Add(10*time.Hour + 15*time.Minute)
	svc := newTestService(db, repo, &fakeBreakRepo{}, &fakeDeductionRepo{}, &fakeUserRepo{}, outbox, now)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.ClockIn(context.Background(), uuid.NewString(), SourceWeb)
	assert.NoError(t, err)
	assert.Equal(t, 15, resp.LateMinutes)
	assert.True(t, resp.Open)
	assert.Equal(t, 15, saved.LateMinutes)
	assert.Len(t, outbox.events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOutSettlesMetricsAndBreakOverage(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	uid := uuid.New()
	clockIn := schedule.NewTimeOfDay(10, 0)
	open := &Attendance{ID: uuid.New(), UserID: &uid, Date: monday, ClockIn: clockIn, Source: SourceWeb}

	repo := &fakeRepo{
		findOpenFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
			return open, nil
		},
		updateFn: func(ctx context.Context, a *Attendance) error { return nil },
	}

	end := schedule.NewTimeOfDay(13, 15)
	breaks := &fakeBreakRepo{
		findByRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]breaksession.BreakSession, error) {
			return []breaksession.BreakSession{
				{StartTime: schedule.NewTimeOfDay(12, 0), EndTime: &end}, // 75 min
			}, nil
		},
	}

	var booked *deduction.Deduction
	deds := &fakeDeductionRepo{
		createFn: func(ctx context.Context, d *deduction.Deduction) error { booked = d; return nil },
	}
	outbox := &fakeOutbox{}

	// 19:30, half an hour past the 19:00 end
	now := monday.Add(19*time.Hour + 30*time.Minute)
	svc := newTestService(db, repo, breaks, deds, &fakeUserRepo{}, outbox, now)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.ClockOut(context.Background(), uid.String())
	assert.NoError(t, err)
	assert.Equal(t, 0.5, resp.OvertimeHours)
	assert.Equal(t, 0, resp.LateMinutes)
	assert.False(t, resp.Open)

	// 75 min break against a 60 min allowance at $1/min
	assert.NotNil(t, booked)
	assert.Equal(t, 15.0, booked.Amount)
	assert.Equal(t, "Excessive break time: 15 mins", booked.Reason)

	// clock_out event plus deduction event
	assert.Len(t, outbox.events, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOutWithoutOpenSession(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findOpenFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(db, repo, &fakeBreakRepo{}, &fakeDeductionRepo{}, &fakeUserRepo{}, &fakeOutbox{}, monday.Add(18*time.Hour))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ClockOut(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, attendanceerrors.ErrNotClockedIn)
}

func TestService_ScanTogglesSession(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	uid := uuid.New()
	users := &fakeUserRepo{
		findBySerialFn: func(ctx context.Context, serial string) (*user.User, error) {
			if serial == "ABC123" {
				return &user.User{ID: uid}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	var saved *Attendance
	repo := &fakeRepo{
		findOpenFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
			if saved == nil || saved.ClockOut != nil {
				return nil, gorm.ErrRecordNotFound
			}
			return saved, nil
		},
		findDateFn: func(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
			if saved == nil {
				return nil, gorm.ErrRecordNotFound
			}
			return saved, nil
		},
		createFn: func(ctx context.Context, a *Attendance) error { saved = a; return nil },
		updateFn: func(ctx context.Context, a *Attendance) error { saved = a; return nil },
	}
	breaks := &fakeBreakRepo{findByRangeFn: noBreaks}

	now := monday.Add(10 * time.Hour)
	svc := newTestService(db, repo, breaks, &fakeDeductionRepo{}, users, &fakeOutbox{}, now)

	mock.ExpectBegin()
	mock.ExpectCommit()
	first, err := svc.ScanBySerial(context.Background(), "ABC123")
	assert.NoError(t, err)
	assert.True(t, first.Open)
	assert.Equal(t, SourceCard, first.Source)

	mock.ExpectBegin()
	mock.ExpectCommit()
	second, err := svc.ScanBySerial(context.Background(), "ABC123")
	assert.NoError(t, err)
	assert.False(t, second.Open)

	// A third scan after the session closed is a no-op: no new transaction.
	third, err := svc.ScanBySerial(context.Background(), "ABC123")
	assert.NoError(t, err)
	assert.False(t, third.Open)
	assert.Equal(t, second.ID, third.ID)

	_, err = svc.ScanBySerial(context.Background(), "nope")
	assert.ErrorIs(t, err, attendanceerrors.ErrUnknownDevice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CreateRecomputesMetrics(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	uid := uuid.New()
	users := &fakeUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
			return &user.User{ID: uid}, nil
		},
	}

	var saved *Attendance
	repo := &fakeRepo{
		createFn: func(ctx context.Context, a *Attendance) error { saved = a; return nil },
	}
	svc := newTestService(db, repo, &fakeBreakRepo{}, &fakeDeductionRepo{}, users, &fakeOutbox{}, monday)

	out := "20:00"
	resp, err := svc.Create(context.Background(), CreateAttendanceRequest{
		UserID:   uid.String(),
		Date:     "2025-06-02",
		ClockIn:  "10:20",
		ClockOut: &out,
	})
	assert.NoError(t, err)
	assert.Equal(t, 20, resp.LateMinutes)
	assert.Equal(t, 1.0, resp.OvertimeHours)
	assert.Equal(t, SourceManual, saved.Source)
}

func TestService_CreateRejectsClockOutBeforeIn(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	uid := uuid.New()
	users := &fakeUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
			return &user.User{ID: uid}, nil
		},
	}
	svc := newTestService(db, &fakeRepo{}, &fakeBreakRepo{}, &fakeDeductionRepo{}, users, &fakeOutbox{}, monday)

	out := "09:00"
	_, err := svc.Create(context.Background(), CreateAttendanceRequest{
		UserID:   uid.String(),
		Date:     "2025-06-02",
		ClockIn:  "10:00",
		ClockOut: &out,
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrClockOutBeforeIn)
}
