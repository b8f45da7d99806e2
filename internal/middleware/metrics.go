package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleamarket/internal/monitor"
)

// Metrics records request counts and latency per route
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Use the route template, not the raw path, to keep label
		// cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		monitor.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
