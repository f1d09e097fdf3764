package webdav

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/haierkeys/fast-latex-notes/pkg/fileurl"
	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

// Config WebDAV 连接信息
type Config struct {
	Endpoint   string `yaml:"endpoint"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	CustomPath string `yaml:"custom-path"`
}

// WebDAV 客户端
type WebDAV struct {
	Client *gowebdav.Client
	Config *Config
}

// NewClient 创建一个新的 WebDAV 客户端实例
func NewClient(conf *Config) (*WebDAV, error) {
	if conf.Endpoint == "" {
		return nil, errors.New("webdav: endpoint is required")
	}
	c := gowebdav.NewClient(conf.Endpoint, conf.User, conf.Password)
	return &WebDAV{Client: c, Config: conf}, nil
}

func (w *WebDAV) dir() string {
	return "/" + strings.Trim(w.Config.CustomPath, "/")
}

func (w *WebDAV) filePath(key string) string {
	return path.Join(w.dir(), fileurl.KeyFileName(key))
}

// gowebdav 不接收 context，调用前检查取消
func (w *WebDAV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	content, err := w.Client.Read(w.filePath(key))
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "webdav")
	}
	return string(content), true, nil
}

func (w *WebDAV) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.Client.MkdirAll(w.dir(), 0755); err != nil {
		return errors.Wrap(err, "webdav")
	}
	if err := w.Client.Write(w.filePath(key), []byte(value), os.ModePerm); err != nil {
		return errors.Wrap(err, "webdav")
	}
	return nil
}

func (w *WebDAV) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.Client.Remove(w.filePath(key)); err != nil && !gowebdav.IsErrNotFound(err) {
		return errors.Wrap(err, "webdav")
	}
	return nil
}
