// Package storage is the key-value persistence boundary
// Package storage 键值持久化边界
package storage

import (
	"context"
	"time"

	"github.com/haierkeys/fast-latex-notes/pkg/code"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/aliyun_oss"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/aws_s3"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/cloudflare_r2"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/local_fs"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/memory"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/minio"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/webdav"
	"go.uber.org/zap"
)

type Type = string
type CloudType = Type

const OSS CloudType = "oss"
const R2 CloudType = "r2"
const S3 CloudType = "s3"
const MinIO CloudType = "minio"
const WebDAV CloudType = "webdav"
const LOCAL Type = "localfs"
const Memory Type = "memory"

// Database is served by the gorm key_value table in internal/dao
// Database 由 internal/dao 中的 gorm key_value 表提供
const Database Type = "database"

var StorageTypeMap = map[Type]bool{
	OSS:      true,
	R2:       true,
	S3:       true,
	MinIO:    true,
	WebDAV:   true,
	LOCAL:    true,
	Memory:   true,
	Database: true,
}

// RemoteTypeMap backends reached over the network, wrapped by the circuit breaker
// RemoteTypeMap 需要网络访问的后端，会套上熔断器
var RemoteTypeMap = map[Type]bool{
	OSS:    true,
	R2:     true,
	S3:     true,
	MinIO:  true,
	WebDAV: true,
}

// Config unified storage configuration
// Config 统一存储配置
type Config struct {
	Type Type `yaml:"type" default:"localfs"`

	CustomPath string `yaml:"custom-path"`

	// Cloud Storage (S3/OSS/MinIO/R2)
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	AccountID       string `yaml:"account-id"` // Cloudflare R2 specific

	// WebDAV
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Local FS
	SavePath string `yaml:"save-path" default:"storage/kv"`

	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig circuit breaker settings for remote backends
// BreakerConfig 远程后端熔断配置
type BreakerConfig struct {
	MaxRequests      uint32        `yaml:"max-requests" default:"3"`
	Interval         time.Duration `yaml:"interval" default:"30s"`
	Timeout          time.Duration `yaml:"timeout" default:"30s"`
	MinRequests      uint32        `yaml:"min-requests" default:"5"`
	FailureThreshold float64       `yaml:"failure-threshold" default:"0.6"`
}

// Storager reads and writes whole string values under a key
// Storager 按键读写完整字符串值
type Storager interface {
	// Get returns ok=false when the key has never been written
	// Get 键从未写入时返回 ok=false
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	// Remove of a missing key is not an error
	// Remove 删除不存在的键不视为错误
	Remove(ctx context.Context, key string) error
}

// NewClient builds the backend named by config.Type, Database is resolved by the caller
// NewClient 根据 config.Type 创建后端，Database 类型由调用方处理
func NewClient(config *Config, logger *zap.Logger) (Storager, error) {
	if config == nil {
		return nil, code.ErrorInvalidStorageType
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		s   Storager
		err error
	)

	switch config.Type {
	case LOCAL:
		s, err = local_fs.NewClient(&local_fs.Config{
			SavePath:   config.SavePath,
			CustomPath: config.CustomPath,
		})
	case Memory:
		s = memory.NewClient()
	case OSS:
		s, err = aliyun_oss.NewClient(&aliyun_oss.Config{
			Endpoint:        config.Endpoint,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	case R2:
		s, err = cloudflare_r2.NewClient(&cloudflare_r2.Config{
			AccountID:       config.AccountID,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	case S3:
		s, err = aws_s3.NewClient(&aws_s3.Config{
			Region:          config.Region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	case MinIO:
		s, err = minio.NewClient(&minio.Config{
			Endpoint:        config.Endpoint,
			Region:          config.Region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	case WebDAV:
		s, err = webdav.NewClient(&webdav.Config{
			Endpoint:   config.Endpoint,
			User:       config.User,
			Password:   config.Password,
			CustomPath: config.CustomPath,
		})
	default:
		return nil, code.ErrorInvalidStorageType
	}
	if err != nil {
		return nil, err
	}

	if RemoteTypeMap[config.Type] {
		s = NewBreaker(s, config.Type, config.Breaker, logger)
	}
	return s, nil
}
