package log

import (
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init 初始化全局日志系统；cfg 为 nil 时从环境变量读取
func Init(cfg *Config) {
	if cfg == nil {
		cfg = NewConfigFromEnv()
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	// 所有日志携带服务标识，便于多服务环境下过滤
	defaultLogger = slog.New(h.WithAttrs([]slog.Attr{
		slog.String("service", "hrwiki-backend"),
	}))
	slog.SetDefault(defaultLogger)
}

// GetLogger 获取默认 logger，未初始化时按环境变量初始化
func GetLogger() *slog.Logger {
	if defaultLogger == nil {
		Init(nil)
	}
	return defaultLogger
}

// NewModuleLogger 创建带 module/component 标识的 logger
func NewModuleLogger(module, component string) *slog.Logger {
	return GetLogger().With(
		slog.String("module", module),
		slog.String("component", component),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
