package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"inventory-api/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数，保护 DB 下游
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c, 1); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Fail("server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
