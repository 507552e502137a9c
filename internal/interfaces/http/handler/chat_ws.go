package handler

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/hrwiki/backend/internal/application/pipeline"
	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/llm"
	"github.com/hrwiki/backend/internal/infrastructure/log"
)

// wsWriteTimeout 单帧写超时
const wsWriteTimeout = 10 * time.Second

// ChatWSHandler WebSocket 问答处理器
// 每个连接串行处理请求，一问一答，回答按块推送
type ChatWSHandler struct {
	pipeline *pipeline.Service
	client   *llm.Client
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewChatWSHandler 创建 WebSocket 问答处理器
func NewChatWSHandler(pipelineService *pipeline.Service, client *llm.Client) *ChatWSHandler {
	return &ChatWSHandler{
		pipeline: pipelineService,
		client:   client,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// 跨域已由 CORS 中间件控制，这里不再重复校验
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log.NewModuleLogger("http", "chat_ws"),
	}
}

// wsEvent 推送给客户端的事件帧
type wsEvent struct {
	Type      string `json:"type"` // chunk / done / error
	Content   string `json:"content,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Serve 升级连接并进入请求循环
// GET /api/v1/chat/ws
func (h *ChatWSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		h.handleRequest(c.Request.Context(), conn, &req)
	}
}

// handleRequest 处理单个问答请求，回答流式推送
func (h *ChatWSHandler) handleRequest(ctx context.Context, conn *websocket.Conn, req *ChatRequest) {
	role := hr.Role(req.Role)
	if req.Query == "" || !role.IsValid() {
		h.writeEvent(conn, wsEvent{Type: "error", Error: "query and a valid role are required"})
		return
	}

	result, err := h.pipeline.Prepare(ctx, pipeline.Request{
		Query:   req.Query,
		Role:    role,
		History: req.toHistory(),
	})
	if err != nil {
		h.writeEvent(conn, wsEvent{Type: "error", Error: err.Error()})
		return
	}

	err = h.client.ChatStream(ctx, result.Payload, func(text string) error {
		return h.writeEvent(conn, wsEvent{
			Type:      "chunk",
			Content:   text,
			RequestID: result.RequestID,
		})
	})
	if err != nil {
		h.writeEvent(conn, wsEvent{Type: "error", RequestID: result.RequestID, Error: err.Error()})
		return
	}

	h.writeEvent(conn, wsEvent{Type: "done", RequestID: result.RequestID})
}

// writeEvent 带写超时的事件推送
func (h *ChatWSHandler) writeEvent(conn *websocket.Conn, event wsEvent) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(event)
}
