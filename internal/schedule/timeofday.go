package schedule

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimeOfDay is a clock time within a day, stored as minutes since midnight.
// It maps to a Postgres TIME column.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// TimeOfDayFrom truncates a timestamp to its wall-clock time of day.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

// ParseTimeOfDay accepts "15:04" or "15:04:05"; seconds are discarded.
func ParseTimeOfDay(v string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, v); err == nil {
			return TimeOfDayFrom(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q, expected HH:MM or HH:MM:SS", v)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Sub returns the difference t - other in whole minutes.
func (t TimeOfDay) Sub(other TimeOfDay) int {
	return int(t) - int(other)
}

// Value implements driver.Valuer, formatting as HH:MM:SS for TIME columns.
func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute()), nil
}

// Scan implements sql.Scanner for TIME columns, which drivers surface as
// time.Time, string or []byte depending on configuration.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case time.Time:
		*t = TimeOfDayFrom(v)
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

// GormDataType tells gorm to use a TIME column for this type.
func (TimeOfDay) GormDataType() string {
	return "time"
}
