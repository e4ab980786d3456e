package qrtoken

import (
	"github.com/mikexportit-jpg/attendance/internal/middleware"
	"github.com/mikexportit-jpg/attendance/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	qr := r.Group("/qr")
	{
		qr.POST("/issue",
			middleware.AuthMiddleware(),
			middleware.RBACAuthorize(rbacService, "qr", "issue"),
			middleware.RateLimitByUser(2, 5),
			h.Issue,
		)

		// Scanning devices prove presence with the one-time token itself;
		// the registered device id resolves the user.
		qr.POST("/clock", middleware.RateLimitByIP(5, 10), h.Clock)
	}
}
