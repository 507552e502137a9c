package handler

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/hrwiki/backend/internal/application/pipeline"
	"github.com/hrwiki/backend/internal/domain/chat"
	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/llm"
	"github.com/hrwiki/backend/internal/infrastructure/log"
	"github.com/hrwiki/backend/internal/interfaces/http/response"
)

// ChatHandler 问答处理器
type ChatHandler struct {
	pipeline *pipeline.Service
	client   *llm.Client
	logger   *slog.Logger
}

// NewChatHandler 创建问答处理器
func NewChatHandler(pipelineService *pipeline.Service, client *llm.Client) *ChatHandler {
	return &ChatHandler{
		pipeline: pipelineService,
		client:   client,
		logger:   log.NewModuleLogger("http", "chat"),
	}
}

// ChatMessage 会话历史条目
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// ChatRequest 问答请求
type ChatRequest struct {
	Query   string        `json:"query" binding:"required"`
	Role    string        `json:"role" binding:"required"`
	History []ChatMessage `json:"history,omitempty"`
}

// toHistory 请求历史转领域消息
func (r *ChatRequest) toHistory() []chat.Message {
	history := make([]chat.Message, 0, len(r.History))
	for _, m := range r.History {
		history = append(history, chat.Message{Role: m.Role, Content: m.Content})
	}
	return history
}

// Chat 流式问答
// 响应为分块的 text/plain，客户端按到达顺序拼接
// @Summary 流式问答
// @Tags chat
// @Accept json
// @Produce plain
// @Param request body ChatRequest true "问答请求"
// @Success 200 {string} string "流式回答文本"
// @Failure 400 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}

	role := hr.Role(req.Role)
	if !role.IsValid() {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "unknown role: "+req.Role)
		return
	}

	result, err := h.pipeline.Prepare(c.Request.Context(), pipeline.Request{
		Query:   req.Query,
		Role:    role,
		History: req.toHistory(),
	})
	if err != nil {
		h.writePipelineError(c, err)
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("X-Request-ID", result.RequestID)
	c.Writer.WriteHeader(http.StatusOK)

	flusher, _ := c.Writer.(http.Flusher)
	err = h.client.ChatStream(c.Request.Context(), result.Payload, func(text string) error {
		if _, werr := c.Writer.WriteString(text); werr != nil {
			return werr
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		// 头已发出，只能记录并中断流
		h.logger.Error("chat stream aborted",
			"request_id", result.RequestID, "error", err)
	}
}

// writePipelineError 管线错误映射为 HTTP 状态
func (h *ChatHandler) writePipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, hr.ErrStoreUnavailable):
		response.Error(c, http.StatusServiceUnavailable, response.CodeStoreError, "document store unavailable")
	case errors.Is(err, llm.ErrModelUnavailable), errors.Is(err, llm.ErrModelTimeout):
		response.Error(c, http.StatusServiceUnavailable, response.CodeModelError, "model unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, err.Error())
	}
}
