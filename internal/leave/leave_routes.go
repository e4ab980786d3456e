package leave

import (
	"github.com/mikexportit-jpg/attendance/internal/middleware"
	"github.com/mikexportit-jpg/attendance/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leaves", "read"), handler.GetAll)
		leaves.GET("/export", middleware.RBACAuthorize(rbacService, "reports", "export"), handler.Export)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leaves", "read"), handler.GetByID)
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leaves", "request"), handler.Request)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leaves", "approve"), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leaves", "approve"), handler.Reject)
	}
}
