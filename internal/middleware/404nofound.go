package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-latex-notes/pkg/app"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
)

// NoFound answers unmatched routes with ErrorNotFoundAPI naming the method and path
// NoFound 未匹配的路由返回 ErrorNotFoundAPI，详情中带上方法与路径
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.ErrorNotFoundAPI.WithDetails(c.Request.Method + " " + c.Request.URL.Path))
		c.Abort()
	}
}
