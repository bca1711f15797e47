package middleware

import (
	"go-hrms/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger to the standard context so
// service and repository code can log with request metadata without knowing
// about gin. It must run after RequestID and, for authenticated routes,
// after AuthMiddleware so the actor id is available.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		actor := c.GetString("employee_id")
		if actor == "" {
			actor = c.GetString("user_id")
		}

		fields := []zap.Field{zap.String("request_id", rid)}
		if actor != "" {
			fields = append(fields, zap.String("actor_id", actor))
		}

		ctx := c.Request.Context()
		ctx = contextutil.WithActorID(ctx, actor)
		ctx = contextutil.WithLogger(ctx, logger.With(fields...))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
