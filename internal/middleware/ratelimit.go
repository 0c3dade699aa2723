package middleware

import (
	"rianzel_backend/internal/ratelimit"
	"rianzel_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware - ограничение частоты запросов по IP клиента.
// Вешается на чувствительные маршруты (вход, регистрация, сброс пароля).
func RateLimitMiddleware(limiter *ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			apperrors.HandleError(c, apperrors.ErrTooManyAttempts("Too many requests, slow down", 0))
			c.Abort()
			return
		}
		c.Next()
	}
}
