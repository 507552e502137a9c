package wire

import (
	"database/sql"

	"log/slog"

	"github.com/hrwiki/backend/internal/infrastructure/config"
	applog "github.com/hrwiki/backend/internal/infrastructure/log"
	"github.com/hrwiki/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer    *interfaces.HTTPServer
	configManager *config.Manager
	db            *sql.DB
	logger        *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	configManager *config.Manager,
	db *sql.DB,
) *App {
	return &App{
		HTTPServer:    httpServer,
		configManager: configManager,
		db:            db,
		logger:        applog.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting hrwiki backend application")

	// 启动配置热更新监听
	if err := a.configManager.StartWatch(); err != nil {
		a.logger.Error("Failed to start config watcher",
			"error", err,
		)
	}

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Start(); err != nil {
			a.logger.Error("Failed to start HTTP server",
				"error", err,
			)
		}
	}()

	a.logger.Info("hrwiki backend application started successfully")
	return nil
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping hrwiki backend application")

	a.configManager.Stop()

	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		return err
	}

	// 关闭数据库连接
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database connection",
				"error", err,
			)
			return err
		}
	}

	a.logger.Info("hrwiki backend application stopped successfully")
	return nil
}
