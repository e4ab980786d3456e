package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	Update(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindByFilter(ctx context.Context, userID string, from, to *time.Time) ([]Leave, error)
	HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByFilter(ctx context.Context, userID string, from, to *time.Time) ([]Leave, error) {
	q := r.db.WithContext(ctx).Model(&Leave{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if from != nil && to != nil {
		q = q.Where("start_date >= ?", from.Format("2006-01-02")).
			Where("end_date <= ?", to.Format("2006-01-02"))
	}

	var leaves []Leave
	err := q.Order("start_date DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("user_id = ?", userID).
		Where("status <> ?", StatusRejected).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
