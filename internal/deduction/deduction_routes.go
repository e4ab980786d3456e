package deduction

import (
	"github.com/mikexportit-jpg/attendance/internal/middleware"
	"github.com/mikexportit-jpg/attendance/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	deductions := r.Group("/deductions")
	deductions.Use(middleware.AuthMiddleware())
	{
		deductions.POST("", middleware.RBACAuthorize(rbacService, "deductions", "write"), h.Create)
		deductions.GET("", middleware.RBACAuthorize(rbacService, "deductions", "read"), h.List)
	}
}
