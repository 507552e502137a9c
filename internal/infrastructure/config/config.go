package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Auth      AuthConfig      `yaml:"auth"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// HTTPPort 固定端口，用于单例锁
	HTTPPort string `yaml:"http_port"`
	// AllowedOrigins CORS 允许的前端来源
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Path SQLite 数据库路径，留空使用 ~/.hrwiki/hrwiki.db
	Path string `yaml:"path"`
}

// LLMConfig 本地模型调用配置（Ollama）
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	// MaxTokens 单次生成的 token 上限（num_predict）
	MaxTokens int `yaml:"max_tokens"`
	// TimeoutSeconds 单次请求超时
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// RetrievalConfig 检索配置
type RetrievalConfig struct {
	// MaxContextChars 上下文字符预算，超出部分在片段边界截断
	MaxContextChars int `yaml:"max_context_chars"`
	// HistoryWindow 纳入提示的历史轮数上限
	HistoryWindow int `yaml:"history_window"`
	// VisaListLimit 签证过滤查询返回的记录数上限
	VisaListLimit int `yaml:"visa_list_limit"`
	// SampleLimit 样例查询返回的记录数上限
	SampleLimit int `yaml:"sample_limit"`
}

// UserConfig 单个用户配置
type UserConfig struct {
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	// LegacyPassword 旧版共享口令（仅密码模式，默认 hr_lead 权限）
	LegacyPassword string `yaml:"legacy_password"`
	// Users 用户名 -> 凭据与角色
	Users map[string]UserConfig `yaml:"users"`
}

// DefaultConfigPath 默认配置文件路径
// Windows: %USERPROFILE%\.hrwiki\config.yaml
// macOS/Linux: ~/.hrwiki/config.yaml
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".hrwiki", "config.yaml"), nil
}

// NewConfig 创建配置（默认值）
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":18020",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:3002",
				"http://localhost:5173",
			},
		},
		Database: DatabaseConfig{
			Path: "",
		},
		LLM: LLMConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "deepseek-r1:8b",
			Temperature:    0.7,
			MaxTokens:      2000,
			TimeoutSeconds: 300,
		},
		Retrieval: RetrievalConfig{
			MaxContextChars: 3000,
			HistoryWindow:   5,
			VisaListLimit:   10,
			SampleLimit:     5,
		},
		Auth: AuthConfig{
			LegacyPassword: "hr2025",
			Users:          map[string]UserConfig{},
		},
	}
}

// Load 加载配置：默认值 + 配置文件覆盖 + 环境变量覆盖
// 配置文件不存在时直接使用默认值，不视为错误
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides 应用环境变量覆盖
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HRWIKI_HTTP_PORT"); v != "" {
		cfg.Server.HTTPPort = v
	}
	if v := os.Getenv("HRWIKI_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("CHATBOT_PASSWORD"); v != "" {
		cfg.Auth.LegacyPassword = v
	}
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}
