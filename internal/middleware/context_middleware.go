package middleware

import (
	"go-kintai/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger tagged with the request id.
// AuthMiddleware adds the actor fields later in the chain.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		fields := []zap.Field{zap.String("request_id", contextutil.GetRequestID(ctx))}
		if actor, ok := contextutil.GetActor(ctx); ok {
			fields = append(fields, zap.String("actor_id", actor.ID), zap.String("role", actor.Role))
		}

		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, logger.With(fields...)))
		c.Next()
	}
}
