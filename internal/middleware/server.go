package middleware

import (
	"log/slog"
	"time"

	"amora_backend/internal/logger"
	"amora_backend/pkg/apperrors"
	"amora_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		log := logger.FromContext(c.Request.Context())
		fields := []any{
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Duration("duration", duration),
			slog.Int("size_bytes", c.Writer.Size()),
		}
		if c.Writer.Status() >= 500 {
			log.Error("HTTP Server Error", fields...)
		} else if c.Writer.Status() >= 400 {
			log.Warn("HTTP Client Error", fields...)
		} else {
			log.Info("HTTP Request", fields...)
		}
	}
}

// IdentityMiddleware извлекает идентификатор пользователя из X-User-ID.
// Аутентификацию выполняет API-гейтвей выше по стеку; сюда заголовок
// приходит уже проверенным, но формат все равно валидируется.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Missing X-User-ID header"))
			c.Abort()
			return
		}
		if _, err := uuid.Parse(userID); err != nil {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Malformed X-User-ID header"))
			c.Abort()
			return
		}

		c.Set(string(contextkeys.UserIDContextKey), userID)
		ctx := logger.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
