package aws_s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

type Config struct {
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

// S3 key-value backend over one bucket, shared by the MinIO and R2 clients
// S3 基于单个 bucket 的键值后端，MinIO 与 R2 复用
type S3 struct {
	S3Client   *s3.Client
	BucketName string
	CustomPath string
}

// NewClient 创建 S3 存储实例
func NewClient(conf *Config) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, "")),
		config.WithRegion(conf.Region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}
	return NewWithClient(s3.NewFromConfig(cfg), conf.BucketName, conf.CustomPath), nil
}

// NewWithClient wraps an already configured s3 client
// NewWithClient 使用已配置好的 s3 客户端
func NewWithClient(client *s3.Client, bucket string, customPath string) *S3 {
	return &S3{
		S3Client:   client,
		BucketName: bucket,
		CustomPath: customPath,
	}
}
