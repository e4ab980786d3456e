package importer

import (
	"fmt"
	"net/http"

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

func (h *Handler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "missing file upload", nil)
		return
	}
	defer file.Close()

	summary, err := h.service.ImportXLSX(c.Request.Context(), c.GetString("user_id"), file)
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
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "attendance_import_template.xlsx"))
	if err := f.Write(c.Writer); err != nil {
		writeServiceError(c, err)
	}
}
