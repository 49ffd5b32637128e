package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"paytrack/internal/shared/apperror"
	"paytrack/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency dedupes POSTs carrying an Idempotency-Key header. A replay of
// a completed request gets the cached response back verbatim; a concurrent
// duplicate while the first is still in flight gets a 409 from the
// short-lived lock. Handlers finish the loop: on success they cache their
// response under idempotency_cache_key and release idempotency_lock_key.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString("user_id_validated")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			c.JSON(http.StatusOK, response.ApiEnvelope{Ok: true, Data: json.RawMessage(val)})
			c.Abort()
			return
		}

		// Lock expires on its own if the server dies mid-request.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()

		if !isNew {
			response.Error(c, http.StatusConflict, apperror.CodeConflict,
				"Your request is still being processed, please wait.", nil)
			c.Abort()
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
