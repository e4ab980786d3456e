package auth

import (
	"github.com/mikexportit-jpg/attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", middleware.RateLimitByIP(1, 5), h.Login)
		authGroup.GET("/me", middleware.AuthMiddleware(), h.Me)
	}
}
