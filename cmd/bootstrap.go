package cmd

import (
	"os"

	"github.com/haierkeys/fast-latex-notes/pkg/logger"
	"go.uber.org/zap"
)

// bootstrapLogger logs config discovery and server start before the configured logger exists
// bootstrapLogger 在配置的日志器就绪前记录配置查找与服务启动
var bootstrapLogger = newBootstrapLogger()

// newBootstrapLogger console only, DEBUG=1 lowers the level to debug
// newBootstrapLogger 仅控制台输出，DEBUG=1 时降为 debug 级别
func newBootstrapLogger() *zap.Logger {
	level := "info"
	if os.Getenv("DEBUG") != "" {
		level = "debug"
	}
	lg, err := logger.NewLogger(logger.Config{Level: level})
	if err != nil {
		return zap.NewNop()
	}
	return lg
}
