package pipeline

import (
	"strings"

	"github.com/hrwiki/backend/internal/domain/chat"
	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/config"
)

// 角色化系统提示词
const (
	leadSystemPrompt = `You are an HR assistant for company staff. You answer questions about employees, visa sponsorship, benefits, and company policy using ONLY the context provided below. The requester is an HR Lead with full access to employee records including salary and visa details. If the context does not contain the answer, say so plainly instead of guessing. Never invent employee records.`

	juniorSystemPrompt = `You are an HR assistant for company staff. You answer questions about employees, visa sponsorship, benefits, and company policy using ONLY the context provided below. The requester is an HR Junior: salary figures, visa expiration dates, and termination records are not available to them and must never appear in your answers. If the context does not contain the answer, say so plainly instead of guessing. Never invent employee records.`
)

// emptyContextText 检索为空时的上下文占位文案
const emptyContextText = "No relevant records were retrieved for this question."

// Shaper 把检索上下文、会话历史和当前问题组装成模型提示
// 固定形状：系统轮、上下文轮、有界历史、当前用户轮
type Shaper struct {
	manager *config.Manager
}

// NewShaper 创建会话组装器
func NewShaper(manager *config.Manager) *Shaper {
	return &Shaper{manager: manager}
}

// BuildPrompt 组装提示载荷
// 历史按配置窗口取最近 N 轮，组装只读不回写调用方切片
func (s *Shaper) BuildPrompt(filtered *hr.RetrievalResult, history []chat.Message, query string, role hr.Role) chat.PromptPayload {
	window := s.manager.Current().Retrieval.HistoryWindow

	messages := make([]chat.Message, 0, len(history)+3)
	messages = append(messages, chat.Message{
		Role:    chat.RoleSystem,
		Content: systemPromptFor(role),
	})
	messages = append(messages, chat.Message{
		Role:    chat.RoleSystem,
		Content: "Context from HR database:\n\n" + renderContext(filtered),
	})
	messages = append(messages, chat.NewHistoryFrom(window, history).Messages()...)
	messages = append(messages, chat.Message{
		Role:    chat.RoleUser,
		Content: query,
	})

	return chat.PromptPayload{Messages: messages}
}

// systemPromptFor 按角色选择系统提示词
func systemPromptFor(role hr.Role) string {
	if role == hr.RoleHRLead {
		return leadSystemPrompt
	}
	return juniorSystemPrompt
}

// renderContext 拼接片段正文
func renderContext(filtered *hr.RetrievalResult) string {
	if filtered == nil || len(filtered.Fragments) == 0 {
		return emptyContextText
	}
	texts := make([]string, 0, len(filtered.Fragments))
	for _, f := range filtered.Fragments {
		texts = append(texts, f.Text)
	}
	return strings.Join(texts, "\n\n")
}
