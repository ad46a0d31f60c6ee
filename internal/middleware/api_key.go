package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader carries the shared key on service-to-service calls.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth rejects requests whose X-API-Key header does not match expectedKey.
// An empty expectedKey rejects every request.
func APIKeyAuth(expectedKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(APIKeyHeader)
		if expectedKey == "" || provided == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(expectedKey)) != 1 {
			GetLoggerFromCtx(c.Request.Context()).Warn("Rejected request with invalid API key", "client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}
		c.Next()
	}
}
