package middlewares

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit caps requests per client IP in a fixed one-minute window.
// Redis errors let the request through.
func RateLimit(client *redis.Client, scope string, limit int) gin.HandlerFunc {
	if client == nil || limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	const window = time.Minute
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("rate:%s:%s", scope, c.ClientIP())

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("rate limit: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, window)
		}
		if count > int64(limit) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, try again later."})
			return
		}
		c.Next()
	}
}
