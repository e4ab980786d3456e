package report

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	reporterrors "github.com/mikexportit-jpg/attendance/internal/report/errors"
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

// subjectUserID resolves whose report is requested. Employees are pinned
// to themselves; managers may pass user_id.
func subjectUserID(c *gin.Context) string {
	userID := c.GetString("user_id")
	if c.GetString("role") != user.RoleEmployee && c.Query("user_id") != "" {
		userID = c.Query("user_id")
	}
	return userID
}

func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	from, err := time.Parse("2006-01-02", c.DefaultQuery("start_date", firstOfMonth))
	if err != nil {
		return time.Time{}, time.Time{}, reporterrors.ErrInvalidDateFormat
	}
	to, err := time.Parse("2006-01-02", c.DefaultQuery("end_date", now.Format("2006-01-02")))
	if err != nil {
		return time.Time{}, time.Time{}, reporterrors.ErrInvalidDateFormat
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, reporterrors.ErrInvalidDateRange
	}
	return from, to, nil
}

func parsePeriod(c *gin.Context) (int, time.Month, error) {
	now := time.Now().UTC()
	period, err := time.Parse("2006-01", c.DefaultQuery("period", now.Format("2006-01")))
	if err != nil {
		return 0, 0, reporterrors.ErrInvalidPeriod
	}
	return period.Year(), period.Month(), nil
}

func (h *Handler) Daily(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	rows, err := h.service.Daily(c.Request.Context(), subjectUserID(c), from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"days": rows}, nil)
}

func (h *Handler) Weekly(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	rows, err := h.service.Weekly(c.Request.Context(), subjectUserID(c), from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"weeks": rows}, nil)
}

func (h *Handler) Monthly(c *gin.Context) {
	year, month, err := parsePeriod(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	dto, err := h.service.Monthly(c.Request.Context(), subjectUserID(c), year, month)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto, nil)
}

// MonthlyAll returns the payroll report for every user. Manager only.
func (h *Handler) MonthlyAll(c *gin.Context) {
	year, month, err := parsePeriod(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	rows, err := h.service.MonthlyAll(c.Request.Context(), year, month)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payroll": rows}, nil)
}

func (h *Handler) Payslip(c *gin.Context) {
	year, month, err := parsePeriod(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	pdf, err := h.service.Payslip(c.Request.Context(), subjectUserID(c), year, month)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("payslip-%04d-%02d.pdf", year, int(month))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) ExportMonthly(c *gin.Context) {
	year, month, err := parsePeriod(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	f, err := h.service.ExportMonthlyXLSX(c.Request.Context(), year, month)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("payroll-%04d-%02d.xlsx", year, int(month))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *Handler) Overtime(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	userID := ""
	if c.GetString("role") == user.RoleEmployee {
		userID = c.GetString("user_id")
	} else if q := c.Query("user_id"); q != "" {
		userID = q
	}

	rows, err := h.service.Overtime(c.Request.Context(), userID, from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"overtime": rows}, nil)
}

func (h *Handler) Dashboard(c *gin.Context) {
	dto, err := h.service.Dashboard(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto, nil)
}

func (h *Handler) ManagerDashboard(c *gin.Context) {
	dto, err := h.service.ManagerDashboard(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto, nil)
}
