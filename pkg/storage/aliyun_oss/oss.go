package aliyun_oss

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/haierkeys/fast-latex-notes/pkg/fileurl"
	"github.com/pkg/errors"
)

type Config struct {
	Endpoint        string `yaml:"endpoint"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type OSS struct {
	Client *oss.Client
	Bucket *oss.Bucket
	Config *Config
}

// NewClient 创建阿里云 OSS 存储实例
func NewClient(conf *Config) (*OSS, error) {
	client, err := oss.New(conf.Endpoint, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	bucket, err := client.Bucket(conf.BucketName)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	return &OSS{Client: client, Bucket: bucket, Config: conf}, nil
}

func (p *OSS) objectKey(key string) string {
	return path.Join(strings.Trim(p.Config.CustomPath, "/"), fileurl.KeyFileName(key))
}

func (p *OSS) Get(ctx context.Context, key string) (string, bool, error) {
	body, err := p.Bucket.GetObject(p.objectKey(key), oss.WithContext(ctx))
	if err != nil {
		var serr oss.ServiceError
		if errors.As(err, &serr) && serr.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "aliyun_oss")
	}
	defer body.Close()

	content, err := io.ReadAll(body)
	if err != nil {
		return "", false, errors.Wrap(err, "aliyun_oss")
	}
	return string(content), true, nil
}

func (p *OSS) Set(ctx context.Context, key string, value string) error {
	err := p.Bucket.PutObject(p.objectKey(key), strings.NewReader(value),
		oss.ContentType("application/json"), oss.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, "aliyun_oss")
	}
	return nil
}

func (p *OSS) Remove(ctx context.Context, key string) error {
	if err := p.Bucket.DeleteObject(p.objectKey(key), oss.WithContext(ctx)); err != nil {
		return errors.Wrap(err, "aliyun_oss")
	}
	return nil
}
