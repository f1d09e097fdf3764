// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-latex-notes/pkg/storage"
	"github.com/haierkeys/fast-latex-notes/pkg/util"
	"github.com/haierkeys/fast-latex-notes/pkg/workerpool"
	"github.com/haierkeys/fast-latex-notes/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Storage  storage.Config `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Equation EquationConfig `yaml:"equation"`
	Render   RenderConfig   `yaml:"render"`
	App      AppSettings    `yaml:"app"`
	Backup   BackupConfig   `yaml:"backup"`
	Security SecurityConfig `yaml:"security"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics / pprof）
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	// AuthToken API 访问令牌，为空表示不校验
	AuthToken string `yaml:"auth-token"`
}

// DatabaseConfig 数据库配置，storage.type 为 database 时使用
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m、1h
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期，支持格式：10m、1h
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
	// Replicas 只读副本 DSN（mysql / postgres）
	Replicas []string `yaml:"replicas"`
}

// EquationConfig 公式存储配置
type EquationConfig struct {
	// StorageKey 公式文档的存储键
	StorageKey string `yaml:"storage-key" default:"equations"`
	// ReturnDemoOnFirstFetch 首次读取写入示例后是否直接返回示例
	ReturnDemoOnFirstFetch bool `yaml:"return-demo-on-first-fetch"`
	// DuplicateSuffix 复制公式的标题后缀
	DuplicateSuffix string `yaml:"duplicate-suffix" default:" (Copy)"`
}

// RenderConfig 公式图片地址配置
type RenderConfig struct {
	// BaseURL 渲染服务地址
	BaseURL string `yaml:"base-url" default:"https://latex.codecogs.com/png.image"`
	// Dark 默认使用深色主题
	Dark bool `yaml:"dark"`
}

// BackupConfig 快照配置
type BackupConfig struct {
	// Enabled 是否启用定时快照
	Enabled bool `yaml:"enabled" default:"true"`
	// Strategy daily / weekly / monthly / custom
	Strategy string `yaml:"strategy" default:"daily"`
	// Cron strategy 为 custom 时使用的表达式（分 时 日 月 周）
	Cron string `yaml:"cron"`
	// Keep 保留的快照数量，0 表示全部保留
	Keep int `yaml:"keep" default:"7"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒），0 表示不限制
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// DefaultPageSize 默认分页大小，0 表示不分页
	DefaultPageSize int `yaml:"default-page-size" default:"0"`
	// MaxPageSize 最大分页大小
	MaxPageSize int `yaml:"max-page-size" default:"500"`
	// IsReturnSussess 是否在变更操作后返回成功信息
	IsReturnSussess bool `yaml:"is-return-sussess" default:"true"`

	// Rate limit 配置
	RateLimitCapacity     int64  `yaml:"rate-limit-capacity" default:"100"`
	RateLimitQuantum      int64  `yaml:"rate-limit-quantum" default:"10"`
	RateLimitFillInterval string `yaml:"rate-limit-fill-interval" default:"1s"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"8"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"64"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"5m"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// DefaultConfig 仅包含默认值的配置
func DefaultConfig() (*AppConfig, error) {
	c := new(AppConfig)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}
	return c, nil
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath
	return c, realpath, nil
}

// ParseConfig 解析 YAML 配置内容并填充默认值
func ParseConfig(data []byte) (*AppConfig, error) {
	c, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// 默认值已在解析前写入，YAML 中显式的 false / 0 不会被覆盖
	if c.Storage.Type == "" {
		c.Storage.Type = storage.LOCAL
	}
	if !storage.StorageTypeMap[c.Storage.Type] {
		return nil, errors.Errorf("unknown storage type %q", c.Storage.Type)
	}
	return c, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}

	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if c.App.WriteQueueTimeout != "" {
		if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil && timeout > 0 {
			cfg.WriteTimeout = timeout
		}
	}
	if c.App.WriteQueueIdleTime != "" {
		if idleTime, err := util.ParseDuration(c.App.WriteQueueIdleTime); err == nil && idleTime > 0 {
			cfg.IdleTimeout = idleTime
		}
	}

	return cfg
}

// GetContextTimeout 请求上下文超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// GetRateLimitFillInterval 令牌桶填充间隔
func (c *AppConfig) GetRateLimitFillInterval() time.Duration {
	if d, err := util.ParseDuration(c.App.RateLimitFillInterval); err == nil && d > 0 {
		return d
	}
	return time.Second
}

// GetBackupCron 根据快照策略返回 cron 表达式
func (c *AppConfig) GetBackupCron() string {
	switch c.Backup.Strategy {
	case "weekly":
		return "0 0 * * 0"
	case "monthly":
		return "0 0 1 * *"
	case "custom":
		return c.Backup.Cron
	}
	return "0 0 * * *"
}
