package handler

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/log"
	"github.com/hrwiki/backend/internal/interfaces/http/response"
)

// QuestionsHandler 预置问题处理器
type QuestionsHandler struct {
	documents hr.DocumentRepository
	logger    *slog.Logger
}

// NewQuestionsHandler 创建预置问题处理器
func NewQuestionsHandler(documents hr.DocumentRepository) *QuestionsHandler {
	return &QuestionsHandler{
		documents: documents,
		logger:    log.NewModuleLogger("http", "questions"),
	}
}

// List 列出预置的常见问题，供前端落地页展示
// @Summary 常见问题列表
// @Tags questions
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/questions [get]
func (h *QuestionsHandler) List(c *gin.Context) {
	questions, err := h.documents.ListSuggestedQuestions(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list suggested questions", "error", err)
		response.Error(c, http.StatusServiceUnavailable, response.CodeStoreError, "document store unavailable")
		return
	}

	items := make([]string, 0, len(questions))
	for _, q := range questions {
		items = append(items, q.Question)
	}
	response.Success(c, gin.H{"questions": items, "count": len(items)})
}
