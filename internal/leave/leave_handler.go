package leave

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mikexportit-jpg/attendance/internal/shared/apperror"
	"github.com/mikexportit-jpg/attendance/internal/shared/response"
	"github.com/mikexportit-jpg/attendance/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Request(c *gin.Context) {
	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Request(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// GetAll lists requests. Employees only see their own; managers may filter
// by user_id or omit it for everyone.
func (h *Handler) GetAll(c *gin.Context) {
	userID, from, to, err := listFilter(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), userID, from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if c.GetString("role") == user.RoleEmployee && resp.UserID != c.GetString("user_id") {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your leave request", nil)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req.Reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	userID, from, to, err := listFilter(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	f, err := h.service.ExportXLSX(c.Request.Context(), userID, from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "leave_requests.xlsx"))
	if err := f.Write(c.Writer); err != nil {
		h.writeServiceError(c, err)
	}
}

func listFilter(c *gin.Context) (string, *time.Time, *time.Time, error) {
	userID := c.GetString("user_id")
	if c.GetString("role") != user.RoleEmployee {
		userID = c.Query("user_id")
	}

	var from, to *time.Time
	if s, e := c.Query("start_date"), c.Query("end_date"); s != "" && e != "" {
		f, err := time.Parse("2006-01-02", s)
		if err != nil {
			return "", nil, nil, err
		}
		t, err := time.Parse("2006-01-02", e)
		if err != nil {
			return "", nil, nil, err
		}
		from, to = &f, &t
	}
	return userID, from, to, nil
}
