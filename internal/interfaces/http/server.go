package http

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hrwiki/backend/internal/infrastructure/config"
	"github.com/hrwiki/backend/internal/infrastructure/log"
	"github.com/hrwiki/backend/internal/interfaces/http/handler"
	"github.com/hrwiki/backend/internal/interfaces/http/middleware"

	_ "github.com/hrwiki/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	serverConfig *config.ServerConfig,
	authHandler *handler.AuthHandler,
	chatHandler *handler.ChatHandler,
	chatWSHandler *handler.ChatWSHandler,
	employeeHandler *handler.EmployeeHandler,
	questionsHandler *handler.QuestionsHandler,
) *HTTPServer {
	router := gin.Default()

	logger := log.NewModuleLogger("http", "server")

	router.Use(middleware.CORS(serverConfig.AllowedOrigins))
	router.Use(middleware.EnsureUTF8Body())

	// 注册路由
	api := router.Group("/api/v1")
	{
		api.POST("/auth", authHandler.Login)
		api.POST("/chat", chatHandler.Chat)
		api.GET("/chat/ws", chatWSHandler.Serve)
		api.GET("/employees/:id", employeeHandler.Get)
		api.GET("/questions", questionsHandler.List)
	}

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &HTTPServer{
		router:   router,
		httpPort: serverConfig.HTTPPort,
		logger:   logger,
	}
}

// Start 启动服务器
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:    s.httpPort,
		Handler: s.router,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	return s.server.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
