package routers

import (
	"github.com/haierkeys/fast-latex-notes/internal/app"
	"github.com/haierkeys/fast-latex-notes/internal/middleware"
	"github.com/haierkeys/fast-latex-notes/internal/routers/api_router"
	"github.com/haierkeys/fast-latex-notes/pkg/limiter"
	"github.com/haierkeys/fast-latex-notes/pkg/metrics"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// newMethodLimiters 写接口按 "METHOD 路径" 限流
func newMethodLimiters(cfg *app.AppConfig) limiter.Face {
	fill := cfg.GetRateLimitFillInterval()
	rule := func(key string) limiter.BucketRule {
		return limiter.BucketRule{
			Key:          key,
			FillInterval: fill,
			Capacity:     cfg.App.RateLimitCapacity,
			Quantum:      cfg.App.RateLimitQuantum,
		}
	}
	return limiter.NewMethodLimiter().AddBuckets(
		rule("POST /api/equation"),
		rule("PUT /api/equation"),
		rule("POST /api/equation/duplicate"),
		rule("POST /api/equation/favorite"),
		rule("DELETE /api/equation"),
		rule("DELETE /api/equations"),
		rule("POST /api/backup"),
	)
}

func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))
		api.Use(middleware.Metrics(metrics.Default()))
		api.Use(middleware.RateLimiter(newMethodLimiters(cfg)))
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))

		// 创建 Handlers（注入 App Container）
		equationHandler := api_router.NewEquationHandler(appContainer)
		templateHandler := api_router.NewTemplateHandler(appContainer)
		backupHandler := api_router.NewBackupHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		// 添加服务端版本号接口（无需认证）
		api.GET("/version", versionHandler.ServerVersion)

		auth := api.Group("", middleware.SimpleAuthTokenWithConfig(appContainer.GetAuthToken()))

		auth.GET("/equations", equationHandler.List)
		auth.GET("/equations/grouped", equationHandler.Grouped)
		auth.DELETE("/equations", equationHandler.DeleteAll)
		auth.GET("/equation", equationHandler.Get)
		auth.POST("/equation", equationHandler.Create)
		auth.PUT("/equation", equationHandler.Edit)
		auth.DELETE("/equation", equationHandler.Delete)
		auth.POST("/equation/duplicate", equationHandler.Duplicate)
		auth.POST("/equation/favorite", equationHandler.Favorite)
		auth.GET("/color-tags", equationHandler.ColorTags)

		auth.GET("/template/categories", templateHandler.Categories)
		auth.GET("/templates", templateHandler.List)
		auth.GET("/render/url", templateHandler.RenderURL)

		auth.GET("/backups", backupHandler.List)
		auth.POST("/backup", backupHandler.Snapshot)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
