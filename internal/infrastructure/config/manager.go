package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/hrwiki/backend/internal/infrastructure/log"
)

// Manager 配置管理器，持有当前配置快照并支持热更新
// 请求链路在入口处取一次快照，配置变更不影响进行中的请求
type Manager struct {
	mu      sync.RWMutex
	path    string
	current *Config
	watcher *fsnotify.Watcher
	done    chan struct{}
	logger  *slog.Logger
}

// NewManager 创建配置管理器并加载初始配置
func NewManager() (*Manager, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return NewManagerWithPath(path, log.NewModuleLogger("config", "manager"))
}

// NewManagerWithPath 使用指定配置文件路径创建管理器
func NewManagerWithPath(path string, logger *slog.Logger) (*Manager, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	return &Manager{
		path:    path,
		current: cfg,
		done:    make(chan struct{}),
		logger:  logger,
	}, nil
}

// Current 返回当前配置快照
func (m *Manager) Current() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reload 重新加载配置文件
func (m *Manager) Reload() error {
	cfg, err := Load(m.path)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	m.mu.Lock()
	m.current = cfg
	m.mu.Unlock()

	m.logger.Info("Config reloaded",
		"path", m.path,
		"model", cfg.LLM.Model,
		"max_context_chars", cfg.Retrieval.MaxContextChars,
	)
	return nil
}

// StartWatch 启动配置文件监听，文件写入时自动重载
// 配置目录不存在时跳过监听（首次写入配置后需重启生效）
func (m *Manager) StartWatch() error {
	dir := filepath.Dir(m.path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		m.logger.Info("Config directory not found, skipping watch", "dir", dir)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	// 监听目录而非文件：编辑器替换写入会使文件级监听失效
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	m.watcher = watcher
	go m.watchLoop()

	m.logger.Info("Config watcher started", "path", m.path)
	return nil
}

// watchLoop 处理文件变更事件
func (m *Manager) watchLoop() {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Name != m.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := m.Reload(); err != nil {
				m.logger.Error("Failed to reload config after change",
					"error", err,
				)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Error("Config watcher error", "error", err)
		case <-m.done:
			return
		}
	}
}

// Stop 停止监听
func (m *Manager) Stop() {
	close(m.done)
	if m.watcher != nil {
		m.watcher.Close()
	}
}
