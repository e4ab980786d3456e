package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	attendanceerrors "github.com/mikexportit-jpg/attendance/internal/attendance/errors"
	"github.com/mikexportit-jpg/attendance/internal/breaksession"
	"github.com/mikexportit-jpg/attendance/internal/deduction"
	"github.com/mikexportit-jpg/attendance/internal/events"
	"github.com/mikexportit-jpg/attendance/internal/messaging/kafka"
	"github.com/mikexportit-jpg/attendance/internal/schedule"
	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"
	"github.com/mikexportit-jpg/attendance/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, userID, source string) (AttendanceResponse, error)
	ClockOut(ctx context.Context, userID string) (AttendanceResponse, error)
	ClockToggle(ctx context.Context, userID, source string) (AttendanceResponse, error)
	ScanBySerial(ctx context.Context, serial string) (AttendanceResponse, error)
	ScanByNFC(ctx context.Context, nfcUID string) (AttendanceResponse, error)
	GetByRange(ctx context.Context, userID string, from, to time.Time) ([]AttendanceResponse, error)
	Create(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)
	Update(ctx context.Context, id string, req UpdateAttendanceRequest) (AttendanceResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db            *sql.DB
	repo          Repository
	breakRepo     breaksession.Repository
	deductionRepo deduction.Repository
	userRepo      user.Repository
	outbox        kafka.OutboxRepository
	policy        schedule.Policy
	now           func() time.Time
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	breakRepo breaksession.Repository,
	deductionRepo deduction.Repository,
	userRepo user.Repository,
	outbox kafka.OutboxRepository,
	policy schedule.Policy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		breakRepo:     breakRepo,
		deductionRepo: deductionRepo,
		userRepo:      userRepo,
		outbox:        outbox,
		policy:        policy,
		now:           time.Now,
		logger:        l,
	}
}

// ClockIn opens a session for today. Lateness is provisional until
// clock-out; overtime always settles at clock-out.
func (s *service) ClockIn(ctx context.Context, userID, source string) (AttendanceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}
	if source == "" {
		source = SourceWeb
	}
	if !ValidSource(source) {
		return AttendanceResponse{}, apperror.InvalidField("source")
	}

	now := s.now().UTC()
	today := dateOnly(now)
	clockIn := schedule.TimeOfDayFrom(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindOpenByUserAndDate(ctx, userID, today); err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	m := schedule.ClockInMetrics(s.policy, today, clockIn)
	row := &Attendance{
		ID:          uuid.New(),
		UserID:      &uid,
		Date:        today,
		ClockIn:     clockIn,
		LateMinutes: m.LateMinutes,
		Source:      source,
	}
	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}

	if err := s.enqueueClockEvent(ctx, tx, row, events.EventTypeClockIn); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock in",
		zap.String("user_id", userID),
		zap.String("source", source),
		zap.Int("late_minutes", row.LateMinutes),
	)
	return mapToResponse(*row), nil
}

// ClockOut closes today's open session, settles overtime and lateness, and
// charges excessive break time as a deduction in the same transaction.
func (s *service) ClockOut(ctx context.Context, userID string) (AttendanceResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	now := s.now().UTC()
	today := dateOnly(now)
	clockOut := schedule.TimeOfDayFrom(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindOpenByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNotClockedIn
		}
		return AttendanceResponse{}, err
	}

	row.ClockOut = &clockOut
	m := schedule.ComputeMetrics(s.policy, row.Date, &row.ClockIn, row.ClockOut)
	row.OvertimeHours = m.OvertimeHours
	row.LateMinutes = m.LateMinutes

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}

	if err := s.settleBreakOverage(ctx, tx, userID, today); err != nil {
		return AttendanceResponse{}, err
	}

	if err := s.enqueueClockEvent(ctx, tx, row, events.EventTypeClockOut); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock out",
		zap.String("user_id", userID),
		zap.Float64("overtime_hours", row.OvertimeHours),
		zap.Int("late_minutes", row.LateMinutes),
	)
	return mapToResponse(*row), nil
}

// ClockToggle clocks in when no session is open and out otherwise. Badge
// and QR scans use it so one tap always does the right thing.
func (s *service) ClockToggle(ctx context.Context, userID, source string) (AttendanceResponse, error) {
	today := dateOnly(s.now().UTC())

	_, err := s.repo.FindOpenByUserAndDate(ctx, userID, today)
	if err == nil {
		return s.ClockOut(ctx, userID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	// A session already closed today stays closed; scanning again is a no-op.
	if closed, err := s.repo.FindByUserAndDate(ctx, userID, today); err == nil && closed.ClockOut != nil {
		return mapToResponse(*closed), nil
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	return s.ClockIn(ctx, userID, source)
}

func (s *service) ScanBySerial(ctx context.Context, serial string) (AttendanceResponse, error) {
	u, err := s.userRepo.FindBySerialNumber(ctx, serial)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrUnknownDevice
		}
		return AttendanceResponse{}, err
	}
	return s.ClockToggle(ctx, u.ID.String(), SourceCard)
}

func (s *service) ScanByNFC(ctx context.Context, nfcUID string) (AttendanceResponse, error) {
	u, err := s.userRepo.FindByNFCUID(ctx, nfcUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrUnknownDevice
		}
		return AttendanceResponse{}, err
	}
	return s.ClockToggle(ctx, u.ID.String(), SourceCard)
}

func (s *service) GetByRange(ctx context.Context, userID string, from, to time.Time) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindByRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	resp := make([]AttendanceResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

// Create is the manual admin entry path. Metrics are recomputed from the
// provided times, never trusted from input.
func (s *service) Create(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error) {
	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
		}
		return AttendanceResponse{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("date")
	}
	clockIn, err := schedule.ParseTimeOfDay(req.ClockIn)
	if err != nil {
		return AttendanceResponse{}, apperror.InvalidField("clock_in")
	}

	var clockOut *schedule.TimeOfDay
	if req.ClockOut != nil && *req.ClockOut != "" {
		v, err := schedule.ParseTimeOfDay(*req.ClockOut)
		if err != nil {
			return AttendanceResponse{}, apperror.InvalidField("clock_out")
		}
		if v < clockIn {
			return AttendanceResponse{}, attendanceerrors.ErrClockOutBeforeIn
		}
		clockOut = &v
	}

	m := schedule.ComputeMetrics(s.policy, date, &clockIn, clockOut)
	if clockOut == nil {
		m = schedule.ClockInMetrics(s.policy, date, clockIn)
	}

	row := &Attendance{
		ID:            uuid.New(),
		UserID:        &uid,
		Date:          date,
		ClockIn:       clockIn,
		ClockOut:      clockOut,
		OvertimeHours: m.OvertimeHours,
		LateMinutes:   m.LateMinutes,
		Source:        SourceManual,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance created manually",
		zap.String("user_id", req.UserID),
		zap.String("date", req.Date),
	)
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateAttendanceRequest) (AttendanceResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
		}
		return AttendanceResponse{}, err
	}

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return AttendanceResponse{}, apperror.InvalidField("date")
		}
		row.Date = date
	}
	if req.ClockIn != nil {
		v, err := schedule.ParseTimeOfDay(*req.ClockIn)
		if err != nil {
			return AttendanceResponse{}, apperror.InvalidField("clock_in")
		}
		row.ClockIn = v
	}
	if req.ClockOut != nil {
		if *req.ClockOut == "" {
			row.ClockOut = nil
		} else {
			v, err := schedule.ParseTimeOfDay(*req.ClockOut)
			if err != nil {
				return AttendanceResponse{}, apperror.InvalidField("clock_out")
			}
			row.ClockOut = &v
		}
	}
	if row.ClockOut != nil && *row.ClockOut < row.ClockIn {
		return AttendanceResponse{}, attendanceerrors.ErrClockOutBeforeIn
	}

	m := schedule.ComputeMetrics(s.policy, row.Date, &row.ClockIn, row.ClockOut)
	if row.ClockOut == nil {
		m = schedule.ClockInMetrics(s.policy, row.Date, row.ClockIn)
	}
	row.OvertimeHours = m.OvertimeHours
	row.LateMinutes = m.LateMinutes

	if err := s.repo.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return attendanceerrors.ErrAttendanceNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

// settleBreakOverage sums the day's closed breaks and books a deduction for
// minutes past the allowance. Open breaks count as zero.
func (s *service) settleBreakOverage(ctx context.Context, tx *sql.Tx, userID string, date time.Time) error {
	breaks, err := s.breakRepo.FindByRange(ctx, userID, date, date)
	if err != nil {
		return err
	}

	total := breaksession.TotalMinutes(breaks)
	amount := breaksession.OverageDeduction(total, s.policy.BreakAllowanceMinutes, s.policy.BreakRatePerMinute)
	if amount <= 0 {
		return nil
	}

	uid := uuid.MustParse(userID)
	excess := total - s.policy.BreakAllowanceMinutes
	d := &deduction.Deduction{
		ID:     uuid.New(),
		UserID: uid,
		Date:   date,
		Amount: amount,
		Reason: fmt.Sprintf("Excessive break time: %d mins", excess),
	}
	if err := s.deductionRepo.WithTx(tx).Create(ctx, d); err != nil {
		return err
	}

	event := events.DeductionCreatedEvent{
		EventType:   "deduction.created",
		DeductionID: d.ID.String(),
		UserID:      userID,
		Amount:      d.Amount,
		Reason:      d.Reason,
		OccurredAt:  s.now().UTC(),
	}
	outboxEvent, err := kafka.NewOutboxEvent(ctx, "deduction", d.ID.String(), event.EventType, events.DeductionCreatedTopic, event)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		return err
	}

	s.logger.Info("break overage charged",
		zap.String("user_id", userID),
		zap.Int("excess_minutes", excess),
		zap.Float64("amount", amount),
	)
	return nil
}

func (s *service) enqueueClockEvent(ctx context.Context, tx *sql.Tx, row *Attendance, eventType string) error {
	userID := ""
	if row.UserID != nil {
		userID = row.UserID.String()
	}
	event := events.AttendanceClockedEvent{
		EventType:    eventType,
		AttendanceID: row.ID.String(),
		UserID:       userID,
		Date:         row.Date.Format("2006-01-02"),
		Source:       row.Source,
		LateMinutes:  row.LateMinutes,
		OvertimeHrs:  row.OvertimeHours,
		OccurredAt:   s.now().UTC(),
	}
	outboxEvent, err := kafka.NewOutboxEvent(ctx, "attendance", row.ID.String(), eventType, events.AttendanceActivityTopic, event)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, outboxEvent)
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:            a.ID.String(),
		Date:          a.Date.Format("2006-01-02"),
		ClockIn:       a.ClockIn.String(),
		OvertimeHours: a.OvertimeHours,
		LateMinutes:   a.LateMinutes,
		Source:        a.Source,
		Open:          a.Open(),
	}
	if a.UserID != nil {
		resp.UserID = a.UserID.String()
	}
	if a.ClockOut != nil {
		v := a.ClockOut.String()
		resp.ClockOut = &v
	}
	return resp
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
