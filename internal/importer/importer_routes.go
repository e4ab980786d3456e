package importer

import (
	"github.com/mikexportit-jpg/attendance/internal/middleware"
	"github.com/mikexportit-jpg/attendance/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	imports := r.Group("/attendances/import")
	imports.Use(middleware.AuthMiddleware())
	{
		// Re-posting the same upload with the same Idempotency-Key returns
		// the stored summary instead of importing twice.
		imports.POST("",
			middleware.RBACAuthorize(rbacService, "attendance", "import"),
			middleware.RateLimitByUser(0.1, 1),
			middleware.Idempotency(rdb),
			h.Import,
		)
		imports.GET("/template", middleware.RBACAuthorize(rbacService, "attendance", "import"), h.Template)
	}
}
