package breaksession

import (
	"net/http"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"
	"github.com/mikexportit-jpg/attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

type startBreakRequest struct {
	AttendanceID *string `json:"attendance_id"`
}

func (h *Handler) Start(c *gin.Context) {
	var req startBreakRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	resp, err := h.service.Start(c.Request.Context(), c.GetString("user_id"), req.AttendanceID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) End(c *gin.Context) {
	resp, err := h.service.End(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// Report lists breaks with durations and overage amounts for a date range.
func (h *Handler) Report(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	resp, err := h.service.Report(c.Request.Context(), c.Query("user_id"), from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	today := time.Now().UTC().Format("2006-01-02")
	from, err := time.Parse("2006-01-02", c.DefaultQuery("start_date", today))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse("2006-01-02", c.DefaultQuery("end_date", today))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
