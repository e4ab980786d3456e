package breaksession

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=break_repo.go -destination=mock/break_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *BreakSession) error
	Update(ctx context.Context, b *BreakSession) error
	FindOpenByUserAndDate(ctx context.Context, userID string, date time.Time) (*BreakSession, error)
	FindByAttendance(ctx context.Context, attendanceID string) ([]BreakSession, error)
	FindByRange(ctx context.Context, userID string, from, to time.Time) ([]BreakSession, error)
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

func (r *repository) Create(ctx context.Context, b *BreakSession) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) Update(ctx context.Context, b *BreakSession) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) FindOpenByUserAndDate(ctx context.Context, userID string, date time.Time) (*BreakSession, error) {
	var b BreakSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date = ?", date.Format("2006-01-02")).
		Where("end_time IS NULL").
		First(&b).Error
	return &b, err
}

func (r *repository) FindByAttendance(ctx context.Context, attendanceID string) ([]BreakSession, error) {
	var rows []BreakSession
	err := r.db.WithContext(ctx).
		Where("attendance_id = ?", attendanceID).
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByRange(ctx context.Context, userID string, from, to time.Time) ([]BreakSession, error) {
	var rows []BreakSession
	q := r.db.WithContext(ctx).
		Where("date >= ?", from.Format("2006-01-02")).
		Where("date <= ?", to.Format("2006-01-02"))
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Order("date DESC, start_time ASC").Find(&rows).Error
	return rows, err
}
