package advance

import (
	"fmt"
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
	var req CreateAdvanceRequest
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

// List returns advances in a date range with the summed amount. Employees
// are pinned to their own records.
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
	response.Success(c, http.StatusOK, gin.H{"advances": rows, "total": total}, nil)
}

func (h *Handler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "missing file upload", nil)
		return
	}
	defer file.Close()

	summary, err := h.service.ImportXLSX(c.Request.Context(), file)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary, nil)
}

func (h *Handler) Template(c *gin.Context) {
	f, err := h.service.Template()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "advance_import_template.xlsx"))
	if err := f.Write(c.Writer); err != nil {
		writeServiceError(c, err)
	}
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
