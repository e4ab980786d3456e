package leave

import (
	"time"

	"github.com/google/uuid"
)

type Leave struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_user_dates"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_user_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leaves_user_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:varchar(200)"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason *string    `gorm:"type:text"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
}

func (Leave) TableName() string {
	return "leave_requests"
}
