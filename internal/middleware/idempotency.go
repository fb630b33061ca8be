package middleware

import (
	"net/http"

	"go-kintai/internal/shared/contextutil"
	"go-kintai/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	maxIdempotencyKeyLen = 128
)

// IdempotencyKey moves the Idempotency-Key header onto the request context.
// Services decide what the key protects.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "Idempotency-Key is too long", nil)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(contextutil.WithIdempotencyKey(c.Request.Context(), key))
		c.Next()
	}
}
