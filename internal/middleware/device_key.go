package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/mikexportit-jpg/attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// DeviceKeyMiddleware guards endpoints hit by badge reader daemons. They
// carry a shared key in X-Device-Key instead of a user token.
func DeviceKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("DEVICE_API_KEY")
		got := c.GetHeader("X-Device-Key")

		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid device key", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
