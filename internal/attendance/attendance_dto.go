package attendance

// CreateAttendanceRequest is the manual admin entry form.
type CreateAttendanceRequest struct {
	UserID   string  `json:"user_id" binding:"required,uuid"`
	Date     string  `json:"date" binding:"required"`
	ClockIn  string  `json:"clock_in" binding:"required"`
	ClockOut *string `json:"clock_out"`
}

type UpdateAttendanceRequest struct {
	Date     *string `json:"date"`
	ClockIn  *string `json:"clock_in"`
	ClockOut *string `json:"clock_out"`
}

type AttendanceResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id,omitempty"`
	Date          string  `json:"date"`
	ClockIn       string  `json:"clock_in"`
	ClockOut      *string `json:"clock_out,omitempty"`
	OvertimeHours float64 `json:"overtime_hours"`
	LateMinutes   int     `json:"late_minutes"`
	Source        string  `json:"source"`
	Open          bool    `json:"open"`
}
