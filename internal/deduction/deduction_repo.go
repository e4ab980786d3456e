package deduction

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=deduction_repo.go -destination=mock/deduction_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *Deduction) error
	FindByRange(ctx context.Context, userID string, from, to time.Time) ([]Deduction, error)
	SumByUserAndRange(ctx context.Context, userID string, from, to time.Time) (float64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, d *Deduction) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindByRange(ctx context.Context, userID string, from, to time.Time) ([]Deduction, error) {
	var rows []Deduction
	q := r.db.WithContext(ctx).
		Where("date >= ?", from.Format("2006-01-02")).
		Where("date <= ?", to.Format("2006-01-02"))
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Order("date DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) SumByUserAndRange(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&Deduction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Where("date >= ?", from.Format("2006-01-02")).
		Where("date <= ?", to.Format("2006-01-02")).
		Scan(&total).Error
	return total, err
}
