package chat

// 消息角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 对话中的一轮消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PromptPayload 最终交给模型调用方的有序消息序列
// 不变量：system 指令始终在首位，总轮数 <= 窗口容量 + 固定开销轮数
type PromptPayload struct {
	Messages []Message `json:"messages"`
}

// History 有界对话历史窗口，容量固定，满时丢弃最旧一轮
// 把滑动窗口建模为显式的有界队列，丢弃最旧策略可直接测试
type History struct {
	capacity int
	turns    []Message
}

// NewHistory 创建指定容量的历史窗口
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{
		capacity: capacity,
		turns:    make([]Message, 0, capacity),
	}
}

// NewHistoryFrom 从完整历史构建窗口，只保留最后 capacity 轮
func NewHistoryFrom(capacity int, msgs []Message) *History {
	h := NewHistory(capacity)
	for _, m := range msgs {
		h.Push(m)
	}
	return h
}

// Push 追加一轮消息，超出容量时静默丢弃最旧一轮
func (h *History) Push(m Message) {
	if h.capacity == 0 {
		return
	}
	if len(h.turns) == h.capacity {
		copy(h.turns, h.turns[1:])
		h.turns = h.turns[:h.capacity-1]
	}
	h.turns = append(h.turns, m)
}

// Messages 按时间顺序返回窗口内消息的副本
func (h *History) Messages() []Message {
	out := make([]Message, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len 当前窗口内消息数
func (h *History) Len() int {
	return len(h.turns)
}

// Capacity 窗口容量
func (h *History) Capacity() int {
	return h.capacity
}
