package attendance

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

type clockInRequest struct {
	Source string `json:"source"`
}

func (h *Handler) ClockIn(c *gin.Context) {
	var req clockInRequest
	_ = c.ShouldBindJSON(&req) // body is optional, defaults to WEB

	resp, err := h.service.ClockIn(c.Request.Context(), c.GetString("user_id"), req.Source)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	resp, err := h.service.ClockOut(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

type scanRequest struct {
	SerialNumber string `json:"serial_number"`
	NFCUID       string `json:"nfc_uid"`
}

// Scan toggles the session for the user bound to a badge serial or NFC
// tag. Reader daemons post here without a user token.
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.SerialNumber == "" && req.NFCUID == "") {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "serial_number or nfc_uid is required", nil)
		return
	}

	var (
		resp AttendanceResponse
		err  error
	)
	if req.SerialNumber != "" {
		resp, err = h.service.ScanBySerial(c.Request.Context(), req.SerialNumber)
	} else {
		resp, err = h.service.ScanByNFC(c.Request.Context(), req.NFCUID)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// List returns sessions in a date range. Employees are pinned to their own
// records; managers may filter by user_id or omit it for everyone.
func (h *Handler) List(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	userID := c.GetString("user_id")
	if c.GetString("role") != user.RoleEmployee {
		userID = c.Query("user_id")
	}

	resp, err := h.service.GetByRange(c.Request.Context(), userID, from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateAttendanceRequest
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

func (h *Handler) Update(c *gin.Context) {
	var req UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
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
