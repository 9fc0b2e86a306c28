package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/util/metrics"
	"github.com/quillpress/quillpress/web/cache"
	"github.com/quillpress/quillpress/web/entity"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig configures rate limiting.
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyFunc           func(c *gin.Context) string
}

func DefaultRateLimitConfig(perMinute int) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: perMinute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimit counts requests per client and route in a fixed one minute window
// and answers 429 once the limit is reached. If Redis is unavailable the
// request is let through.
func RateLimit(store *cache.Client, config RateLimitConfig) gin.HandlerFunc {
	limit := strconv.Itoa(config.RequestsPerMinute)
	return func(c *gin.Context) {
		route := c.FullPath()
		key := "ratelimit:" + config.KeyFunc(c) + ":" + route

		count, err := store.Hit(c.Request.Context(), key, time.Minute)
		if err != nil {
			logger.Warning("rate limit increment failed:", err)
			c.Next()
			return
		}

		remaining := max(int64(config.RequestsPerMinute)-count, 0)
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(config.RequestsPerMinute) {
			retry := store.TTL(c.Request.Context(), key)
			if retry <= 0 {
				retry = time.Minute
			}
			c.Header("Retry-After", strconv.Itoa(int(retry.Round(time.Second)/time.Second)))
			metrics.RateLimitHits.WithLabelValues(route).Inc()
			logger.Warningf("rate limit exceeded for %s on %s (count: %d)", config.KeyFunc(c), route, count)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.Msg{Message: "too many requests, please try again later"})
			return
		}
		c.Next()
	}
}
