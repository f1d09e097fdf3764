package cmd

import (
	"context"
	"fmt"
	"io"

	internalApp "github.com/haierkeys/fast-latex-notes/internal/app"
	"github.com/haierkeys/fast-latex-notes/pkg/fileurl"
	"github.com/haierkeys/fast-latex-notes/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// loadCLIConfig 读取 --config 指定或默认位置的配置，均不存在时使用默认值
func loadCLIConfig() (*internalApp.AppConfig, error) {
	path := globalFlags.config
	if path == "" {
		for _, p := range []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"} {
			if fileurl.IsExist(p) {
				path = p
				break
			}
		}
	}
	if path == "" {
		return internalApp.DefaultConfig()
	}
	cfg, _, err := internalApp.LoadConfig(path)
	return cfg, err
}

// openApp builds an App for one-shot commands, replaced in tests
// openApp 为一次性命令创建 App，测试中可替换
var openApp = func() (*internalApp.App, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return nil, err
	}
	if err := initStorageWithConfig(cfg); err != nil {
		return nil, err
	}
	lg, err := logger.NewLogger(logger.Config{Level: cfg.Log.Level})
	if err != nil {
		return nil, err
	}
	return internalApp.NewApp(cfg, lg)
}

// withApp 打开 App 执行 fn，结束后关闭
func withApp(fn func(ctx context.Context, a *internalApp.App) error) error {
	a, err := openApp()
	if err != nil {
		return errors.Wrap(err, "open app")
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.Config().GetContextTimeout()+DefaultShutdownTimeout)
	defer cancel()
	defer func() {
		if err := a.Shutdown(context.Background()); err != nil {
			a.Logger().Warn("app shutdown", zap.Error(err))
		}
	}()
	return fn(ctx, a)
}

// printJSON 以缩进 JSON 输出
func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
