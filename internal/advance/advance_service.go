package advance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"
	"github.com/mikexportit-jpg/attendance/internal/user"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateAdvanceRequest struct {
	UserID string  `json:"user_id" binding:"required,uuid"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Date   string  `json:"date"` // YYYY-MM-DD, defaults to today
}

type AdvanceResponse struct {
	ID     string  `json:"id"`
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// ImportSummary reports what an xlsx upload did. Rows naming unknown
// usernames or carrying malformed values are skipped, not fatal.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

//go:generate mockgen -source=advance_service.go -destination=mock/advance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	GetByRange(ctx context.Context, userID string, from, to time.Time) ([]AdvanceResponse, float64, error)
	ImportXLSX(ctx context.Context, r io.Reader) (ImportSummary, error)
	Template() (*excelize.File, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	userRepo user.Repository
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, userRepo user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("advance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("advance.service")
	}
	return &service{db: db, repo: repo, userRepo: userRepo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error) {
	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		return AdvanceResponse{}, apperror.InvalidField("user_id")
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdvanceResponse{}, apperror.InvalidField("user_id")
		}
		return AdvanceResponse{}, err
	}

	date := time.Now().UTC()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return AdvanceResponse{}, apperror.InvalidField("date")
		}
	}

	a := &AdvanceSalary{
		ID:     uuid.New(),
		UserID: uid,
		Amount: req.Amount,
		Date:   date,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("create advance persist failed", zap.Error(err))
		return AdvanceResponse{}, err
	}

	s.logger.Info("advance recorded",
		zap.String("user_id", req.UserID),
		zap.Float64("amount", req.Amount),
	)
	return mapToResponse(*a), nil
}

func (s *service) GetByRange(ctx context.Context, userID string, from, to time.Time) ([]AdvanceResponse, float64, error) {
	rows, err := s.repo.FindByRange(ctx, userID, from, to)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]AdvanceResponse, len(rows))
	total := 0.0
	for i, a := range rows {
		resp[i] = mapToResponse(a)
		total += a.Amount
	}
	return resp, total, nil
}

// ImportXLSX reads rows of {username, amount, date} from the first sheet.
// The header row is skipped; rows that fail to resolve or parse are counted
// and reported but do not abort the batch.
func (s *service) ImportXLSX(ctx context.Context, r io.Reader) (ImportSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportSummary{}, apperror.New(apperror.CodeInvalidInput, "Unreadable xlsx file", 400)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportSummary{}, err
	}

	summary := ImportSummary{}
	batch := make([]AdvanceSalary, 0, len(rows))
	userCache := map[string]uuid.UUID{}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 3 || row[0] == "" {
			continue
		}

		username := row[0]
		uid, ok := userCache[username]
		if !ok {
			u, err := s.userRepo.FindByUsername(ctx, username)
			if err != nil {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: unknown user %q", i+1, username))
				continue
			}
			uid = u.ID
			userCache[username] = uid
		}

		amount, err := strconv.ParseFloat(row[1], 64)
		if err != nil || amount <= 0 {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: bad amount %q", i+1, row[1]))
			continue
		}

		date, err := time.Parse("2006-01-02", row[2])
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: bad date %q", i+1, row[2]))
			continue
		}

		batch = append(batch, AdvanceSalary{
			ID:     uuid.New(),
			UserID: uid,
			Amount: amount,
			Date:   date,
		})
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		s.logger.Error("advance import batch insert failed", zap.Error(err))
		return ImportSummary{}, err
	}

	summary.Imported = len(batch)
	s.logger.Info("advance import finished",
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// Template produces an empty workbook with the expected import columns.
func (s *service) Template() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"username", "amount", "date"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func mapToResponse(a AdvanceSalary) AdvanceResponse {
	return AdvanceResponse{
		ID:     a.ID.String(),
		UserID: a.UserID.String(),
		Amount: a.Amount,
		Date:   a.Date.Format("2006-01-02"),
	}
}
