package deduction

import (
	"time"

	"github.com/google/uuid"
)

type Deduction struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Date      time.Time `gorm:"column:date;type:date;not null;index"`
	Amount    float64   `gorm:"column:amount;not null"`
	Reason    string    `gorm:"column:reason;type:varchar(200)"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Deduction) TableName() string {
	return "deductions"
}
