package deduction

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRepo struct {
	withTxFn            func(tx *sql.Tx) Repository
	createFn            func(ctx context.Context, d *Deduction) error
	findByRangeFn       func(ctx context.Context, userID string, from, to time.Time) ([]Deduction, error)
	sumByUserAndRangeFn func(ctx context.Context, userID string, from, to time.Time) (float64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                   { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, d *Deduction) error { return f.createFn(ctx, d) }
func (f *fakeRepo) FindByRange(ctx context.Context, userID string, from, to time.Time) ([]Deduction, error) {
	return f.findByRangeFn(ctx, userID, from, to)
}
func (f *fakeRepo) SumByUserAndRange(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	return f.sumByUserAndRangeFn(ctx, userID, from, to)
}

func TestService_Create(t *testing.T) {
	userID := uuid.New()
	var saved *Deduction

	repo := &fakeRepo{
		createFn: func(ctx context.Context, d *Deduction) error {
			saved = d
			return nil
		},
	}
	svc := NewService(nil, repo, zap.NewNop())

	resp, err := svc.Create(context.Background(), CreateDeductionRequest{
		UserID: userID.String(),
		Date:   "2025-06-02",
		Amount: 50,
		Reason: "Damaged equipment",
	})
	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, "2025-06-02", resp.Date)
	assert.Equal(t, 50.0, resp.Amount)
	assert.Equal(t, "Damaged equipment", resp.Reason)
}

func TestService_CreateRejectsBadInput(t *testing.T) {
	svc := NewService(nil, &fakeRepo{}, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateDeductionRequest{
		UserID: "not-a-uuid",
		Amount: 10,
		Reason: "x",
	})
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)

	_, err = svc.Create(context.Background(), CreateDeductionRequest{
		UserID: uuid.NewString(),
		Date:   "02-06-2025",
		Amount: 10,
		Reason: "x",
	})
	assert.ErrorAs(t, err, &appErr)
}

func TestService_GetByRangeTotals(t *testing.T) {
	userID := uuid.New()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	repo := &fakeRepo{
		findByRangeFn: func(ctx context.Context, uid string, f, t time.Time) ([]Deduction, error) {
			return []Deduction{
				{ID: uuid.New(), UserID: userID, Date: from, Amount: 15, Reason: "Excessive break time: 15 mins"},
				{ID: uuid.New(), UserID: userID, Date: to, Amount: 25.5, Reason: "Late fee"},
			}, nil
		},
	}
	svc := NewService(nil, repo, zap.NewNop())

	rows, total, err := svc.GetByRange(context.Background(), userID.String(), from, to)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 40.5, total)
}
