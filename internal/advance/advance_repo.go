package advance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=advance_repo.go -destination=mock/advance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *AdvanceSalary) error
	CreateBatch(ctx context.Context, rows []AdvanceSalary) error
	FindByRange(ctx context.Context, userID string, from, to time.Time) ([]AdvanceSalary, error)
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

func (r *repository) Create(ctx context.Context, a *AdvanceSalary) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) CreateBatch(ctx context.Context, rows []AdvanceSalary) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

func (r *repository) FindByRange(ctx context.Context, userID string, from, to time.Time) ([]AdvanceSalary, error) {
	var rows []AdvanceSalary
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
		Model(&AdvanceSalary{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Where("date >= ?", from.Format("2006-01-02")).
		Where("date <= ?", to.Format("2006-01-02")).
		Scan(&total).Error
	return total, err
}
