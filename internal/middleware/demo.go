package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// DemoUser creates a Gin middleware handler that injects the shared demo
// identity into the request context without any credential check. Routes
// behind it behave exactly like the authenticated ones, scoped to the single
// seeded demo account.
func DemoUser(demoUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		ctxWithUser := withUserID(c.Request.Context(), demoUserID)
		enrichedLogger := logger.With(slog.String("user_id", demoUserID), slog.Bool("demo", true))
		ctxWithLoggerAndUser := context.WithValue(ctxWithUser, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctxWithLoggerAndUser)

		c.Next()
	}
}
