// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fast-latex-notes/assets"
	"github.com/haierkeys/fast-latex-notes/internal/catalog"
	"github.com/haierkeys/fast-latex-notes/internal/dao"
	"github.com/haierkeys/fast-latex-notes/internal/domain"
	"github.com/haierkeys/fast-latex-notes/internal/dto"
	"github.com/haierkeys/fast-latex-notes/internal/service"
	pkgapp "github.com/haierkeys/fast-latex-notes/pkg/app"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
	"github.com/haierkeys/fast-latex-notes/pkg/storage"
	"github.com/haierkeys/fast-latex-notes/pkg/workerpool"
	"github.com/haierkeys/fast-latex-notes/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao
	Store  storage.Storager

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// 模板目录，启动时构建一次
	Catalog *catalog.Catalog

	// Repository 层
	EquationRepo domain.EquationRepository
	BackupRepo   domain.BackupRepository

	// Service 层
	EquationService service.EquationService
	TemplateService service.TemplateService
	RenderService   service.RenderService
	BackupService   service.BackupService

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// Option 自定义 App 构建
type Option func(*App)

// WithStore 使用指定的 Storager，忽略 storage 配置（测试与命令行一次性调用）
func WithStore(s storage.Storager) Option {
	return func(a *App) {
		a.Store = s
	}
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	if a.Store == nil {
		if err := a.openStore(); err != nil {
			a.closeConcurrency()
			return nil, err
		}
	}

	// 模板目录在 worker pool 上并行解析
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	c, err := catalog.New(ctx, assets.FormulaData, assets.FormulaDataDir, a.workerPool, logger)
	if err != nil {
		a.closeConcurrency()
		a.closeDB()
		return nil, code.ErrorTemplateLoadFailed.WithDetails(err.Error())
	}
	a.Catalog = c

	// 初始化 Repository 层
	key := cfg.Equation.StorageKey
	if key == "" {
		key = dao.DefaultEquationKey
	}
	a.EquationRepo = dao.NewEquationRepository(a.Store, key, logger)
	a.BackupRepo = dao.NewBackupRepository(a.Store, key, logger)

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		Equation: service.EquationServiceConfig{
			ReturnDemoOnFirstFetch: cfg.Equation.ReturnDemoOnFirstFetch,
			DuplicateSuffix:        cfg.Equation.DuplicateSuffix,
		},
		Render: service.RenderServiceConfig{
			BaseURL: cfg.Render.BaseURL,
			Dark:    cfg.Render.Dark,
		},
		Backup: service.BackupServiceConfig{
			Keep: cfg.Backup.Keep,
		},
	}

	// 初始化 Service 层（依赖注入）
	a.EquationService = service.NewEquationService(a.EquationRepo, a.writeQueueMgr, svcConfig, logger)
	a.TemplateService = service.NewTemplateService(a.Catalog)
	a.RenderService = service.NewRenderService(svcConfig)
	a.BackupService = service.NewBackupService(a.BackupRepo, key, a.writeQueueMgr, svcConfig, logger)

	logger.Info("App container initialized successfully",
		zap.String("storageType", cfg.Storage.Type),
		zap.Int("templateCategories", a.Catalog.Len()),
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// openStore 根据 storage.type 创建键值存储
func (a *App) openStore() error {
	cfg := a.config
	if cfg.Storage.Type != storage.Database {
		s, err := storage.NewClient(&cfg.Storage, a.logger)
		if err != nil {
			return fmt.Errorf("init storage %s: %w", cfg.Storage.Type, err)
		}
		a.Store = s
		return nil
	}

	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type:            cfg.Database.Type,
		Path:            cfg.Database.Path,
		UserName:        cfg.Database.UserName,
		Password:        cfg.Database.Password,
		Host:            cfg.Database.Host,
		Name:            cfg.Database.Name,
		TablePrefix:     cfg.Database.TablePrefix,
		AutoMigrate:     cfg.Database.AutoMigrate,
		Charset:         cfg.Database.Charset,
		ParseTime:       cfg.Database.ParseTime,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		Replicas:        cfg.Database.Replicas,
		RunMode:         cfg.Server.RunMode,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	a.DB = db
	a.Dao = dao.New(db, a.logger)
	a.Store = dao.NewKVRepository(a.Dao)
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Name:      Name,
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// VersionDTO 版本信息响应
func (a *App) VersionDTO() *dto.VersionDTO {
	v := a.Version()
	return &dto.VersionDTO{Name: v.Name, Version: v.Version, GitTag: v.GitTag, BuildTime: v.BuildTime}
}

// IsReturnSuccess 是否返回成功响应
func (a *App) IsReturnSuccess() bool {
	return a.config.App.IsReturnSussess
}

// GetAuthToken 获取 API 访问令牌
func (a *App) GetAuthToken() string {
	return a.config.Security.AuthToken
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// Go 在容器的生命周期内运行后台函数，Shutdown 会等待其结束
func (a *App) Go(fn func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn()
	}()
}

// ShutdownCh 容器关闭时被关闭的通道
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager（用于高级操作）
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Worker Pool -> Write Queue Manager -> 后台任务 -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	// 如果没有提供 context，使用默认超时
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		// 已经关闭
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
	}

	// 2. 关闭 Write Queue Manager（排空所有队列）
	if a.writeQueueMgr != nil {
		a.logger.Info("Shutting down write queue manager...")
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		}
	}

	// 3. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("timeout waiting for background operations: %w", ctx.Err()))
	}

	// 4. 关闭数据库连接
	if err := a.closeDB(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with errors: %v", errs)
	}

	a.logger.Info("App container shutdown completed")
	return nil
}

func (a *App) closeConcurrency() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.workerPool.Shutdown(ctx)
	_ = a.writeQueueMgr.Shutdown(ctx)
}

func (a *App) closeDB() error {
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	a.DB = nil
	a.logger.Info("Database connection closed")
	return nil
}
