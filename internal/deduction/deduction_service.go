package deduction

import (
	"context"
	"database/sql"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateDeductionRequest struct {
	UserID string  `json:"user_id" binding:"required,uuid"`
	Date   string  `json:"date"` // YYYY-MM-DD, defaults to today
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason" binding:"required"`
}

type DeductionResponse struct {
	ID     string  `json:"id"`
	UserID string  `json:"user_id"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

//go:generate mockgen -source=deduction_service.go -destination=mock/deduction_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
	GetByRange(ctx context.Context, userID string, from, to time.Time) ([]DeductionResponse, float64, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("deduction.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("deduction.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error) {
	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		return DeductionResponse{}, apperror.InvalidField("user_id")
	}

	date := time.Now().UTC()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return DeductionResponse{}, apperror.InvalidField("date")
		}
	}

	d := &Deduction{
		ID:     uuid.New(),
		UserID: uid,
		Date:   date,
		Amount: req.Amount,
		Reason: req.Reason,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error("create deduction persist failed", zap.Error(err))
		return DeductionResponse{}, err
	}

	s.logger.Info("deduction created",
		zap.String("user_id", req.UserID),
		zap.Float64("amount", req.Amount),
	)
	return mapToResponse(*d), nil
}

func (s *service) GetByRange(ctx context.Context, userID string, from, to time.Time) ([]DeductionResponse, float64, error) {
	rows, err := s.repo.FindByRange(ctx, userID, from, to)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]DeductionResponse, len(rows))
	total := 0.0
	for i, d := range rows {
		resp[i] = mapToResponse(d)
		total += d.Amount
	}
	return resp, total, nil
}

func mapToResponse(d Deduction) DeductionResponse {
	return DeductionResponse{
		ID:     d.ID.String(),
		UserID: d.UserID.String(),
		Date:   d.Date.Format("2006-01-02"),
		Amount: d.Amount,
		Reason: d.Reason,
	}
}
