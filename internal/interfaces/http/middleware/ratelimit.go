// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	redisinfra "qanoni-ai-api/internal/infrastructure/persistence/redis"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// GenerationRateLimitConfig 生成接口限流配置
type GenerationRateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
	// PerUser 窗口内每用户允许的生成次数
	PerUser int
	// Window 滑动窗口长度
	Window time.Duration
}

// GenerationRateLimit 生成接口的按用户限流。
// 生成是整个系统最贵的操作，窗口远比普通接口保守。
// 限流器故障时放行，可用性优先于限流精度。
func GenerationRateLimit(cfg GenerationRateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.PerUser <= 0 {
		cfg.PerUser = 3
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			userID = "anonymous"
		}

		key := redisinfra.BuildUserRateLimitKey(userID, "generate")

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.PerUser, cfg.Window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     429,
				"message":  "generation rate limit exceeded",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}
