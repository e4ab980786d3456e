package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Attendance, error)
	FindOpenByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	FindByRange(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
	CountOpenByDate(ctx context.Context, date time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Attendance{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindOpenByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date = ?", date.Format("2006-01-02")).
		Where("clock_out IS NULL").
		First(&a).Error
	return &a, err
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date = ?", date.Format("2006-01-02")).
		First(&a).Error
	return &a, err
}

func (r *repository) FindByRange(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error) {
	var rows []Attendance
	q := r.db.WithContext(ctx).
		Where("date >= ?", from.Format("2006-01-02")).
		Where("date <= ?", to.Format("2006-01-02"))
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Order("date ASC, clock_in ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("date = ?", date.Format("2006-01-02")).
		Count(&n).Error
	return n, err
}

func (r *repository) CountOpenByDate(ctx context.Context, date time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("date = ?", date.Format("2006-01-02")).
		Where("clock_out IS NULL").
		Count(&n).Error
	return n, err
}
