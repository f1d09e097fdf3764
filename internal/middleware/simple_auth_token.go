package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-latex-notes/pkg/app"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
)

// SimpleAuthTokenWithConfig 简单 Token 认证中间件，authToken 为空时放行
// 令牌可来自 Authorization 请求头（可带 Bearer 前缀）或 ?authorization=
func SimpleAuthTokenWithConfig(authToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authToken == "" {
			c.Next()
			return
		}

		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("authorization")
		}
		token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))

		if token != authToken {
			app.NewResponse(c).ToResponse(code.ErrorInvalidAuthToken)
			c.Abort()
			return
		}
		c.Next()
	}
}
