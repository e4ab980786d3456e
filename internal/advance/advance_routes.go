package advance

import (
	"github.com/mikexportit-jpg/attendance/internal/middleware"
	"github.com/mikexportit-jpg/attendance/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	advances := r.Group("/advances")
	advances.Use(middleware.AuthMiddleware())
	{
		advances.POST("", middleware.RBACAuthorize(rbacService, "advances", "write"), h.Create)
		advances.GET("", middleware.RBACAuthorize(rbacService, "advances", "read"), h.List)
		advances.POST("/import", middleware.RBACAuthorize(rbacService, "advances", "write"), h.Import)
		advances.GET("/import/template", middleware.RBACAuthorize(rbacService, "advances", "write"), h.Template)
	}
}
