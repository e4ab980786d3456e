package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

type User struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string         `gorm:"column:name;type:varchar(150);not null"`
	Username       string         `gorm:"column:username;type:varchar(100);not null;uniqueIndex"`
	Password       string         `gorm:"column:password;type:text;not null"`
	Role           string         `gorm:"column:role;type:varchar(20);not null;default:employee"`
	SalaryPerMonth float64        `gorm:"column:salary_per_month;not null;default:0"`
	SerialNumber   *string        `gorm:"column:serial_number;type:varchar(255);uniqueIndex"`
	DeviceID       *string        `gorm:"column:device_id;type:varchar(100);uniqueIndex"`
	NFCUID         *string        `gorm:"column:nfc_uid;type:varchar(100);uniqueIndex"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}

// IsPrivileged reports whether the role may act on other users' records.
func IsPrivileged(role string) bool {
	return role == RoleManager || role == RoleAdmin
}
