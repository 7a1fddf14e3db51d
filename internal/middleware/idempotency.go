package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"blair-ops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader   = "Idempotency-Key"
	IdempotencyCacheKey = "idempotency_cache_key"
	IdempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL = 30 * time.Second
)

// Idempotency replays the cached response for a repeated Idempotency-Key and
// rejects a duplicate that arrives while the first is still running. The
// handler is expected to release the lock and cache its response under the
// keys stored on the gin context.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	log := zap.L().Named("middleware.idempotency")
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.ClientIP(), idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cached any
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
				response.Success(c, http.StatusOK, cached, nil)
				c.Abort()
				return
			}
			log.Warn("discarding unreadable idempotent response", zap.String("key", cacheKey))
		}

		isNew, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// Redis down: serve the request without the guarantee.
			log.Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "The same request is still being processed", nil)
			c.Abort()
			return
		}

		c.Set(IdempotencyCacheKey, cacheKey)
		c.Set(IdempotencyLockKey, lockKey)

		c.Next()
	}
}

// FinishIdempotent releases the lock taken by Idempotency and, when payload
// is non-nil, caches it for 24 hours.
func FinishIdempotent(c *gin.Context, rdb *redis.Client, payload any) {
	if rdb == nil {
		return
	}
	ctx := c.Request.Context()
	if lk := c.GetString(IdempotencyLockKey); lk != "" {
		_ = rdb.Del(ctx, lk).Err()
	}
	if payload == nil {
		return
	}
	if ck := c.GetString(IdempotencyCacheKey); ck != "" {
		if body, err := json.Marshal(payload); err == nil {
			_ = rdb.Set(ctx, ck, body, 24*time.Hour).Err()
		}
	}
}
