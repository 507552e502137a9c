package config

import "github.com/google/wire"

// ProviderSet 配置基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	NewManager,
	NewCurrentConfig,
	NewServerConfig,
	NewDatabaseConfig,
)

// NewCurrentConfig 从管理器取启动时配置快照（静态用途：端口、数据库路径）
func NewCurrentConfig(m *Manager) *Config {
	return m.Current()
}
