package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/hrwiki/backend/internal/domain/chat"
	"github.com/hrwiki/backend/internal/infrastructure/config"
	"github.com/hrwiki/backend/internal/infrastructure/log"
)

var (
	// ErrModelUnavailable 模型服务不可达
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrModelTimeout 模型响应超时
	ErrModelTimeout = errors.New("model timeout")
)

// Client Ollama Chat 客户端
// 模型服务实际部署为单并发，调用方负责串行化，这里不做任何排队
type Client struct {
	manager    *config.Manager
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient 创建 LLM 客户端
func NewClient(manager *config.Manager) *Client {
	timeout := time.Duration(manager.Current().LLM.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	return &Client{
		manager: manager,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.NewModuleLogger("llm", "client"),
	}
}

// chatRequest Ollama /api/chat 请求
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

// chatMessage Chat 消息
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatOptions 生成参数
type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

// chatResponse Ollama /api/chat 响应（流式时每行一条）
type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// buildRequest 从提示载荷构建请求体
func (c *Client) buildRequest(payload chat.PromptPayload, stream bool) chatRequest {
	cfg := c.manager.Current().LLM

	messages := make([]chatMessage, 0, len(payload.Messages))
	for _, m := range payload.Messages {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	return chatRequest{
		Model:    cfg.Model,
		Messages: messages,
		Stream:   stream,
		Options: chatOptions{
			Temperature: cfg.Temperature,
			NumPredict:  cfg.MaxTokens,
		},
	}
}

// doRequest 发送请求并返回响应体
func (c *Client) doRequest(ctx context.Context, reqBody chatRequest) (*http.Response, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	baseURL := strings.TrimSuffix(c.manager.Current().LLM.BaseURL, "/")
	url := fmt.Sprintf("%s/api/chat", baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrModelTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d: %s", ErrModelUnavailable, resp.StatusCode, string(body))
	}

	return resp, nil
}

// Chat 同步生成完整回复
func (c *Client) Chat(ctx context.Context, payload chat.PromptPayload) (string, error) {
	resp, err := c.doRequest(ctx, c.buildRequest(payload, false))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrModelUnavailable, result.Error)
	}

	return result.Message.Content, nil
}

// ChatStream 流式生成，每个增量文本块回调一次 onChunk
// onChunk 返回错误时中断流（调用方取消下游传输的场景）
func (c *Client) ChatStream(ctx context.Context, payload chat.PromptPayload, onChunk func(text string) error) error {
	start := time.Now()

	resp, err := c.doRequest(ctx, c.buildRequest(payload, true))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Ollama 流式响应为 NDJSON，逐行解析
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var chunks int
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var chunk chatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("failed to parse stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("%w: %s", ErrModelUnavailable, chunk.Error)
		}

		if chunk.Message.Content != "" {
			if err := onChunk(chunk.Message.Content); err != nil {
				return err
			}
			chunks++
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return fmt.Errorf("%w: %v", ErrModelTimeout, err)
		}
		return fmt.Errorf("%w: stream interrupted: %v", ErrModelUnavailable, err)
	}

	c.logger.Debug("Stream completed",
		"chunks", chunks,
		"elapsed", time.Since(start).String(),
	)
	return nil
}

// TestConnection 测试与 Ollama 的连通性
func (c *Client) TestConnection(ctx context.Context) error {
	payload := chat.PromptPayload{
		Messages: []chat.Message{{Role: chat.RoleUser, Content: "Hello"}},
	}
	_, err := c.Chat(ctx, payload)
	return err
}

// isTimeout 检查是否为网络超时错误
func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
