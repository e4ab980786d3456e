package breaksession

import (
	"github.com/mikexportit-jpg/attendance/internal/middleware"
	"github.com/mikexportit-jpg/attendance/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	breaks := r.Group("/breaks")
	breaks.Use(middleware.AuthMiddleware())
	{
		breaks.POST("/start", middleware.RBACAuthorize(rbacService, "breaks", "write"), h.Start)
		breaks.POST("/end", middleware.RBACAuthorize(rbacService, "breaks", "write"), h.End)
		breaks.GET("/report", middleware.RBACAuthorize(rbacService, "breaks", "read_all"), h.Report)
	}
}
