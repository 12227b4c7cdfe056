package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPObserver records finished requests.
type HTTPObserver interface {
	ObserveHTTPRequest(path, method, statusCode string, duration time.Duration)
}

// Metrics records every request against its route template. Unrouted
// requests share the "unmatched" label.
func Metrics(observer HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		observer.ObserveHTTPRequest(path, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
