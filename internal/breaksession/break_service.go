package breaksession

import (
	"context"
	"database/sql"
	"errors"
	"time"

	breakerrors "github.com/mikexportit-jpg/attendance/internal/breaksession/errors"
	"github.com/mikexportit-jpg/attendance/internal/schedule"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=break_service.go -destination=mock/break_service_mock.go -package=mock
type Service interface {
	Start(ctx context.Context, userID string, attendanceID *string) (BreakResponse, error)
	End(ctx context.Context, userID string) (BreakResponse, error)
	Report(ctx context.Context, userID string, from, to time.Time) ([]BreakReportRow, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	policy schedule.Policy
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, policy schedule.Policy, logger ...*zap.Logger) Service {
	l := zap.L().Named("breaksession.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("breaksession.service")
	}
	return &service{db: db, repo: repo, policy: policy, now: time.Now, logger: l}
}

// Start opens a break. At most one break per user per date may be open; the
// check and the insert share one transaction.
func (s *service) Start(ctx context.Context, userID string, attendanceID *string) (BreakResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return BreakResponse{}, breakerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BreakResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := dateOnly(now)

	_, err = qtx.FindOpenByUserAndDate(ctx, userID, today)
	if err == nil {
		return BreakResponse{}, breakerrors.ErrBreakAlreadyOpen
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return BreakResponse{}, err
	}

	b := &BreakSession{
		ID:        uuid.New(),
		UserID:    uid,
		Date:      today,
		StartTime: schedule.TimeOfDayFrom(now),
	}
	if attendanceID != nil {
		attUUID, err := uuid.Parse(*attendanceID)
		if err == nil {
			b.AttendanceID = &attUUID
		}
	}

	if err := qtx.Create(ctx, b); err != nil {
		s.logger.Error("start break persist failed", zap.Error(err))
		return BreakResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return BreakResponse{}, err
	}

	s.logger.Info("break started", zap.String("user_id", userID))
	return mapToResponse(*b), nil
}

func (s *service) End(ctx context.Context, userID string) (BreakResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return BreakResponse{}, breakerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BreakResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := dateOnly(now)

	b, err := qtx.FindOpenByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BreakResponse{}, breakerrors.ErrNoOpenBreak
		}
		return BreakResponse{}, err
	}

	end := schedule.TimeOfDayFrom(now)
	b.EndTime = &end

	if err := qtx.Update(ctx, b); err != nil {
		return BreakResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return BreakResponse{}, err
	}

	s.logger.Info("break ended",
		zap.String("user_id", userID),
		zap.Int("minutes", b.DurationMinutes()),
	)
	return mapToResponse(*b), nil
}

func (s *service) Report(ctx context.Context, userID string, from, to time.Time) ([]BreakReportRow, error) {
	rows, err := s.repo.FindByRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	report := make([]BreakReportRow, len(rows))
	for i, b := range rows {
		minutes := b.DurationMinutes()
		row := BreakReportRow{
			UserID:    b.UserID.String(),
			Date:      b.Date.Format("2006-01-02"),
			StartTime: b.StartTime.String(),
			Minutes:   minutes,
			Overage:   OverageDeduction(minutes, s.policy.BreakAllowanceMinutes, s.policy.BreakRatePerMinute),
		}
		if b.EndTime != nil {
			v := b.EndTime.String()
			row.EndTime = &v
		}
		report[i] = row
	}
	return report, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mapToResponse(b BreakSession) BreakResponse {
	resp := BreakResponse{
		ID:        b.ID.String(),
		UserID:    b.UserID.String(),
		Date:      b.Date.Format("2006-01-02"),
		StartTime: b.StartTime.String(),
		Minutes:   b.DurationMinutes(),
	}
	if b.AttendanceID != nil {
		v := b.AttendanceID.String()
		resp.AttendanceID = &v
	}
	if b.EndTime != nil {
		v := b.EndTime.String()
		resp.EndTime = &v
	}
	return resp
}
