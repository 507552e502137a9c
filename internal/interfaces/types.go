package interfaces

import (
	"github.com/hrwiki/backend/internal/interfaces/http"
)

// HTTPServer 重导出，避免上层直接依赖子包路径
type HTTPServer = http.HTTPServer
