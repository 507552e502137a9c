package log

import (
	"os"
	"strings"
)

// Config 日志配置
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // console, json
	AddSource bool   // 是否输出调用位置
}

// NewConfigFromEnv 从环境变量创建配置（LOG_LEVEL / LOG_FORMAT / ENV）
func NewConfigFromEnv() *Config {
	cfg := &Config{
		Level:  envOr("LOG_LEVEL", "info"),
		Format: envOr("LOG_FORMAT", "console"),
	}

	// 开发环境放开到 debug 并带源文件定位
	if strings.EqualFold(os.Getenv("ENV"), "development") {
		cfg.Level = "debug"
		cfg.AddSource = true
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
