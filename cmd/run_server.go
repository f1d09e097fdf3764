package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	internalApp "github.com/haierkeys/fast-latex-notes/internal/app"
	"github.com/haierkeys/fast-latex-notes/internal/dto"
	"github.com/haierkeys/fast-latex-notes/internal/routers"
	"github.com/haierkeys/fast-latex-notes/internal/task"
	pkgapp "github.com/haierkeys/fast-latex-notes/pkg/app"
	"github.com/haierkeys/fast-latex-notes/pkg/logger"
	"github.com/haierkeys/fast-latex-notes/pkg/safe_close"
	"github.com/haierkeys/fast-latex-notes/pkg/storage"
	"github.com/haierkeys/fast-latex-notes/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"go.uber.org/zap"
)

// DefaultShutdownTimeout default shutdown timeout duration
// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

type Server struct {
	logger            *zap.Logger             // Logger // 日志对象
	config            *internalApp.AppConfig  // App configuration (injected dependency) // 应用配置（注入的依赖）
	ut                *ut.UniversalTranslator // Translator // 翻译器
	httpServer        *http.Server
	privateHttpServer *http.Server
	sc                *safe_close.SafeClose
	app               *internalApp.App // App Container
}

// checkSecurityConfigWithConfig warns when the API is reachable without a token
// checkSecurityConfigWithConfig 未配置访问令牌时输出警告
func checkSecurityConfigWithConfig(cfg *internalApp.AppConfig, lg *zap.Logger) {
	if cfg.Security.AuthToken != "" {
		return
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("SECURITY WARNING: security.auth-token is empty, the API accepts every request")
	fmt.Println("Generate a token with:")
	fmt.Println("  openssl rand -base64 32")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	if lg != nil {
		lg.Warn("security.auth-token is empty - the HTTP API is not protected")
	}
}

func NewServer(runEnv *runFlags) (*Server, error) {

	appConfig, configRealpath, err := internalApp.LoadConfig(runEnv.config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if len(runEnv.port) > 0 {
		appConfig.Server.HttpPort = runEnv.port
		if !strings.Contains(runEnv.port, ":") {
			appConfig.Server.HttpPort = ":" + runEnv.port
		}
	}

	// --mode 优先于 server.run-mode
	if runEnv.runMode != "" {
		appConfig.Server.RunMode = runEnv.runMode
	}
	if appConfig.Server.RunMode == "" {
		appConfig.Server.RunMode = gin.ReleaseMode
	}
	gin.SetMode(appConfig.Server.RunMode)

	s := &Server{
		config: appConfig,
		sc:     safe_close.NewSafeClose(),
	}

	if err := initLoggerWithConfig(s, appConfig); err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}

	checkSecurityConfigWithConfig(appConfig, s.logger)

	if err := initStorageWithConfig(appConfig); err != nil {
		return nil, fmt.Errorf("initStorage: %w", err)
	}

	uni, err := initValidatorWithLogger(s.logger)
	if err != nil {
		return nil, fmt.Errorf("initValidator: %w", err)
	}
	s.ut = uni

	app, err := internalApp.NewApp(appConfig, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create app container: %w", err)
	}
	s.app = app

	pkgapp.DefaultPaginationConfig = pkgapp.PaginationConfig{
		DefaultPageSize: appConfig.App.DefaultPageSize,
		MaxPageSize:     appConfig.App.MaxPageSize,
	}

	initScheduler(s)

	banner := `
    ______           __     __        ______      _  __   _   __      __
   / ____/___ ______/ /_   / /   ____ /_  __/__  | |/ /  / | / /___  / /____  _____
  / /_  / __ '/ ___/ __/  / /   / __ '// / / _ \ |   /  /  |/ / __ \/ __/ _ \/ ___/
 / __/ / /_/ (__  ) /_   / /___/ /_/ // / /  __//   |  / /|  / /_/ / /_/  __(__  )
/_/    \__,_/____/\__/  /_____/\__,_//_/  \___//_/|_| /_/ |_/\____/\__/\___/____/
`
	s.logger.Warn(fmt.Sprintf("%s\n\n%s v%s\nGit: %s\nBuildTime: %s\n", banner, internalApp.Name, internalApp.Version, internalApp.GitTag, internalApp.BuildTime))

	s.logger.Warn("config loaded", zap.String("path", configRealpath), zap.String(logger.FieldStorageType, appConfig.Storage.Type))

	// 公共 API 与私有调试端口各自监听，地址为空则不启动
	if addr := appConfig.Server.HttpPort; addr != "" {
		s.logger.Warn("api listen", zap.String("addr", addr))
		s.httpServer = s.newHTTPServer(addr, routers.NewRouter(s.app, s.ut))
		s.attachHTTPServer("api service", s.httpServer)
	}
	if addr := appConfig.Server.PrivateHttpListen; addr != "" {
		s.logger.Info("private listen", zap.String("addr", addr))
		s.privateHttpServer = s.newHTTPServer(addr, routers.NewPrivateRouterWithLogger(appConfig.Server.RunMode, s.logger))
		s.attachHTTPServer("private api service", s.privateHttpServer)
	}

	// 关闭信号到达后按容器顺序释放队列与数据库
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := s.app.Shutdown(ctx); err != nil {
			s.logger.Error("app container shutdown", zap.Error(err))
			return
		}
		s.logger.Info("app container closed")
	})

	return s, nil
}

func (s *Server) newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        h,
		ReadTimeout:    time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(s.config.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}

// attachHTTPServer 在 safe_close 上挂载 HTTP 服务，收到关闭信号时优雅停止
func (s *Server) attachHTTPServer(name string, srv *http.Server) {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.ListenAndServe()
		}()
		select {
		case err := <-errChan:
			s.logger.Error(name+" err", zap.Error(err))
			s.sc.SendCloseSignal(err)
		case <-closeSignal:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// 停止HTTP服务器
			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Error(name+" shutdown error", zap.Error(err))
			}
		}
	})
}

func initScheduler(s *Server) {
	// Create task manager
	// 创建任务管理器
	manager := task.NewManager(s.app, s.sc)

	// Register all tasks (business layer control)
	// 注册所有任务(业务层控制)
	if err := manager.RegisterTasks(); err != nil {
		s.logger.Error("failed to register tasks", zap.Error(err))
		return
	}

	// Start task scheduler
	// 启动任务调度器
	manager.Start()
}

// initLoggerWithConfig initializes logger (using injected config)
// initLoggerWithConfig 初始化日志器（使用注入的配置）
func initLoggerWithConfig(s *Server, cfg *internalApp.AppConfig) error {
	lg, err := logger.NewLogger(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		Production: cfg.Log.Production,
	})
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	s.logger = lg

	return nil
}

// newValidator 创建注册了 colortag 规则的验证器
func newValidator() (*validator.CustomValidator, error) {
	v := validator.NewCustomValidator()
	if err := v.RegisterRule(dto.ColorTagRuleName, dto.ColorTagRule); err != nil {
		return nil, err
	}
	return v, nil
}

// initValidatorWithLogger initializes validator, returns UniversalTranslator
// initValidatorWithLogger 初始化验证器，返回 UniversalTranslator
func initValidatorWithLogger(lg *zap.Logger) (*ut.UniversalTranslator, error) {
	customValidator, err := newValidator()
	if err != nil {
		return nil, err
	}
	binding.Validator = customValidator

	var uni *ut.UniversalTranslator

	validate, ok := binding.Validator.Engine().(*validatorV10.Validate)
	if ok {
		uni = ut.New(en.New(), en.New(), zh.New())

		zhTran, _ := uni.GetTranslator("zh")
		enTran, _ := uni.GetTranslator("en")

		if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
			return nil, err
		}
		if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
			return nil, err
		}

		if err := registerColorTagTranslation(validate, enTran, "{0} must be a color tag name or value"); err != nil {
			return nil, err
		}
		if err := registerColorTagTranslation(validate, zhTran, "{0}必须是有效的颜色标签名称或值"); err != nil {
			return nil, err
		}
	}

	lg.Debug("validator initialized")
	return uni, nil
}

func registerColorTagTranslation(validate *validatorV10.Validate, trans ut.Translator, text string) error {
	return validate.RegisterTranslation(dto.ColorTagRuleName, trans,
		func(t ut.Translator) error {
			return t.Add(dto.ColorTagRuleName, text, true)
		},
		func(t ut.Translator, fe validatorV10.FieldError) string {
			msg, err := t.T(dto.ColorTagRuleName, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// initStorageWithConfig initializes storage directory (using injected config)
// initStorageWithConfig 初始化存储目录（使用注入的配置）
func initStorageWithConfig(cfg *internalApp.AppConfig) error {
	dirs := []string{
		filepath.Dir(cfg.Log.File),
	}
	switch cfg.Storage.Type {
	case storage.LOCAL:
		dirs = append(dirs, cfg.Storage.SavePath)
	case storage.Database:
		if cfg.Database.Type == "sqlite" {
			dirs = append(dirs, filepath.Dir(cfg.Database.Path))
		}
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0754); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetApp gets App Container
// GetApp 获取 App Container
func (s *Server) GetApp() *internalApp.App {
	return s.app
}

// GetConfig gets app configuration
// GetConfig 获取应用配置
func (s *Server) GetConfig() *internalApp.AppConfig {
	return s.config
}
