package breaksession

type BreakResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	AttendanceID *string `json:"attendance_id,omitempty"`
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	EndTime      *string `json:"end_time,omitempty"`
	Minutes      int     `json:"minutes"`
}

type BreakReportRow struct {
	UserID    string  `json:"user_id"`
	UserName  string  `json:"user_name,omitempty"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
	Minutes   int     `json:"minutes"`
	Overage   float64 `json:"overage"`
}
