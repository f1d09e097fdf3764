package local_fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/haierkeys/fast-latex-notes/pkg/fileurl"
	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
)

type Config struct {
	SavePath   string `yaml:"save-path" default:"storage/kv"`
	CustomPath string `yaml:"custom-path"`
}

// LocalFS stores each key as one JSON file, replaced atomically on write
// LocalFS 每个键保存为一个 JSON 文件，写入时原子替换
type LocalFS struct {
	Config *Config
}

func NewClient(conf *Config) (*LocalFS, error) {
	if conf == nil || conf.SavePath == "" {
		return nil, errors.New("local_fs: save-path is required")
	}
	return &LocalFS{Config: conf}, nil
}

func (p *LocalFS) getSavePath() string {
	dir := fileurl.PathSuffixCheckAdd(p.Config.SavePath, "/")
	if p.Config.CustomPath != "" {
		dir += fileurl.PathSuffixCheckAdd(strings.Trim(p.Config.CustomPath, "/"), "/")
	}
	return dir
}

func (p *LocalFS) filePath(key string) string {
	return filepath.Join(p.getSavePath(), fileurl.KeyFileName(key))
}

func (p *LocalFS) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	content, err := os.ReadFile(p.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "local_fs")
	}
	return string(content), true, nil
}

func (p *LocalFS) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := p.filePath(key)
	if err := fileurl.CreatePath(dst, 0754); err != nil {
		return errors.Wrap(err, "local_fs")
	}
	if err := atomic.WriteFile(dst, strings.NewReader(value)); err != nil {
		return errors.Wrap(err, "local_fs")
	}
	return nil
}

func (p *LocalFS) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(p.filePath(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "local_fs")
	}
	return nil
}
