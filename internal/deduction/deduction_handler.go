package deduction

import (
	"net/http"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"
	"github.com/mikexportit-jpg/attendance/internal/shared/response"
	"github.com/mikexportit-jpg/attendance/internal/user"

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

func (h *Handler) Create(c *gin.Context) {
	var req CreateDeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// List returns deductions in a date range. Employees only see their own;
// managers may pass user_id to inspect anyone's.
func (h *Handler) List(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	userID := c.GetString("user_id")
	if c.GetString("role") != user.RoleEmployee && c.Query("user_id") != "" {
		userID = c.Query("user_id")
	}

	rows, total, err := h.service.GetByRange(c.Request.Context(), userID, from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deductions": rows, "total": total}, nil)
}

func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	from, err := time.Parse("2006-01-02", c.DefaultQuery("start_date", firstOfMonth))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse("2006-01-02", c.DefaultQuery("end_date", now.Format("2006-01-02")))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
