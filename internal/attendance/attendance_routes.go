package attendance

import (
	"github.com/mikexportit-jpg/attendance/internal/middleware"
	"github.com/mikexportit-jpg/attendance/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.POST("/clock-in",
			middleware.RBACAuthorize(rbacService, "attendance", "clock"),
			middleware.RateLimitByUser(1, 3),
			h.ClockIn,
		)
		attendances.POST("/clock-out",
			middleware.RBACAuthorize(rbacService, "attendance", "clock"),
			middleware.RateLimitByUser(1, 3),
			h.ClockOut,
		)
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.List)
		attendances.POST("", middleware.RBACAuthorize(rbacService, "attendance", "manage"), h.Create)
		attendances.PUT("/:id", middleware.RBACAuthorize(rbacService, "attendance", "manage"), h.Update)
		attendances.DELETE("/:id", middleware.RBACAuthorize(rbacService, "attendance", "manage"), h.Delete)
	}

	// Badge readers authenticate with a shared device key, not a user token.
	r.POST("/attendances/scan", middleware.DeviceKeyMiddleware(), middleware.RateLimitByIP(5, 10), h.Scan)
}
