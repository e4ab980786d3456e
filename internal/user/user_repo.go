package user

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindBySerialNumber(ctx context.Context, serial string) (*User, error)
	FindByDeviceID(ctx context.Context, deviceID string) (*User, error)
	FindByNFCUID(ctx context.Context, nfcUID string) (*User, error)
	FindAll(ctx context.Context, nameQuery string) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	DetachAttendances(ctx context.Context, userID string) error
	CountByRole(ctx context.Context, role string) (int64, error)
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error
	return &u, err
}

func (r *repository) FindBySerialNumber(ctx context.Context, serial string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "serial_number = ?", serial).Error
	return &u, err
}

func (r *repository) FindByDeviceID(ctx context.Context, deviceID string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "device_id = ?", deviceID).Error
	return &u, err
}

func (r *repository) FindByNFCUID(ctx context.Context, nfcUID string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "nfc_uid = ?", nfcUID).Error
	return &u, err
}

func (r *repository) FindAll(ctx context.Context, nameQuery string) ([]User, error) {
	var users []User
	q := r.db.WithContext(ctx).Order("name ASC")
	if nameQuery != "" {
		q = q.Where("name ILIKE ?", "%"+nameQuery+"%")
	}
	err := q.Find(&users).Error
	return users, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error
}

// DetachAttendances nulls the user reference on attendance rows so history
// survives a user delete.
func (r *repository) DetachAttendances(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Table("attendances").
		Where("user_id = ?", userID).
		Update("user_id", nil).Error
}

func (r *repository) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}
