package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-latex-notes/pkg/app"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
	"github.com/haierkeys/fast-latex-notes/pkg/limiter"
)

// RateLimiter creates rate limiting middleware (supports dependency injection)
// RateLimiter 创建限流中间件（支持依赖注入）
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		if bucket, ok := l.GetBucket(key); ok {
			if bucket.TakeAvailable(1) == 0 {
				response := app.NewResponse(c)
				response.ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
