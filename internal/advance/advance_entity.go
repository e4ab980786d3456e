package advance

import (
	"time"

	"github.com/google/uuid"
)

// AdvanceSalary records money paid out before payday. Advances are
// subtracted from net pay for the month they fall in.
type AdvanceSalary struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Amount    float64   `gorm:"column:amount;not null"`
	Date      time.Time `gorm:"column:date;type:date;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AdvanceSalary) TableName() string {
	return "advance_salaries"
}
