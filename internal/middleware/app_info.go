package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-latex-notes/pkg/app"
)

// AppInfoWithConfig 注入应用名称与版本
func AppInfoWithConfig(name string, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Set("access_host", app.GetAccessHost(c))

		c.Next()
	}
}
