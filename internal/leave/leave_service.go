package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "github.com/mikexportit-jpg/attendance/internal/leave/errors"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Request(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, userID string, from, to *time.Time) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id, reason string) (LeaveResponse, error)
	ExportXLSX(ctx context.Context, userID string, from, to *time.Time) (*excelize.File, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// Request files a leave for the calling user. Overlap with any of their
// non-rejected requests is refused inside the transaction.
func (s *service) Request(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("request leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, userID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("request leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("request leave overlap detected",
			zap.String("user_id", userID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	l := &Leave{
		ID:        uuid.New(),
		UserID:    uid,
		StartDate: startDate,
		EndDate:   endDate,
		TotalDays: totalDays,
		Reason:    req.Reason,
		Status:    StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("request leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("request leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave requested",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", userID),
		zap.Int("total_days", totalDays),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, userID string, from, to *time.Time) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindByFilter(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.transition(ctx, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, actorID, id, reason string) (LeaveResponse, error) {
	return s.transition(ctx, actorID, id, StatusRejected, &reason)
}

func (s *service) transition(ctx context.Context, actorID, id, targetStatus string, rejectionReason *string) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave transition begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("leave transition refused",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	// Validate before touching the record so a refused transition leaves
	// the loaded row untouched.
	if targetStatus == StatusRejected && (rejectionReason == nil || *rejectionReason == "") {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	l.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		l.ApprovedBy = &actorUUID
		now := time.Now().UTC()
		l.ApprovedAt = &now
		l.RejectionReason = nil
	case StatusRejected:
		l.ApprovedBy = nil
		l.ApprovedAt = nil
		l.RejectionReason = rejectionReason
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("leave transition persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("leave transition commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("leave status changed",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

// ExportXLSX renders the filtered requests as a workbook for download.
func (s *service) ExportXLSX(ctx context.Context, userID string, from, to *time.Time) (*excelize.File, error) {
	leaves, err := s.repo.FindByFilter(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []any{"user_id", "start_date", "end_date", "total_days", "reason", "status"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	for i, l := range leaves {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			l.UserID.String(),
			l.StartDate.Format("2006-01-02"),
			l.EndDate.Format("2006-01-02"),
			l.TotalDays,
			l.Reason,
			l.Status,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.ID.String(),
		UserID:    l.UserID.String(),
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		TotalDays: l.TotalDays,
		Reason:    l.Reason,
		Status:    l.Status,
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
