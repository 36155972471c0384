// internal/middleware/idempotency.go
package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	idempotencyHeader = "X-Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// Idempotency replays the stored response for a repeated submission key.
// A missing key or an unavailable redis passes the request straight through,
// so double submits are only best-effort deduplicated.
func Idempotency(client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID, _ := c.Get("user_id")
		uid, _ := userID.(string)
		redisKey := "idempotency:" + uid + ":" + c.Request.URL.Path + ":" + key

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		cached, err := client.Get(ctx, redisKey).Result()
		if err == nil {
			c.Header("X-Idempotent-Replay", "true")
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}
		if err != redis.Nil {
			logrus.WithError(err).Warn("Idempotency store unavailable, passing request through")
			c.Next()
			return
		}

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only successful submissions are replayable.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			storeCtx, storeCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer storeCancel()

			if err := client.Set(storeCtx, redisKey, blw.body.String(), idempotencyTTL).Err(); err != nil {
				logrus.WithError(err).Warn("Failed to store idempotent response")
			}
		}
	}
}
