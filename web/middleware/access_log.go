package middleware

import (
	"strconv"
	"time"

	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/util/metrics"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one line per request and records the request metrics.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(elapsed.Seconds())

		line := "[" + GetRequestID(c) + "] " + c.Request.Method + " " + c.Request.URL.Path
		switch {
		case status >= 500:
			logger.Errorf("%s %d %s", line, status, elapsed)
		case status >= 400:
			logger.Infof("%s %d %s", line, status, elapsed)
		default:
			logger.Debugf("%s %d %s", line, status, elapsed)
		}
	}
}
