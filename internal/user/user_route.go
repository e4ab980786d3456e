package user

import (
	"github.com/mikexportit-jpg/attendance/internal/middleware"
	"github.com/mikexportit-jpg/attendance/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.RBACAuthorize(rbacService, "users", "read"), h.GetAll)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "users", "read"), h.GetByID)
		users.POST("", middleware.RBACAuthorize(rbacService, "users", "write"), middleware.RateLimitByUser(3, 10), h.Create)
		users.PUT("/:id", middleware.RBACAuthorize(rbacService, "users", "write"), middleware.RateLimitByUser(3, 10), h.Update)
		users.DELETE("/:id", middleware.RBACAuthorize(rbacService, "users", "write"), middleware.RateLimitByUser(0.5, 2), h.Delete)
		users.POST("/:id/nfc", middleware.RBACAuthorize(rbacService, "users", "write"), h.AssignNFC)
		users.POST("/:id/device", middleware.RBACAuthorize(rbacService, "users", "write"), h.AssignDevice)
		users.DELETE("/:id/device", middleware.RBACAuthorize(rbacService, "users", "write"), h.ResetDevice)
	}
}
