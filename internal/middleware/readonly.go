package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadOnlyMiddleware rejects every request that could modify the store
func ReadOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Server is running in read-only mode"})
		}
	}
}
