package pipeline

import "github.com/hrwiki/backend/internal/domain/hr"

// contextBuilder 累积片段并执行字符预算
// 预算用完后在确定的片段边界截断，同输入必得同输出
type contextBuilder struct {
	budget    int
	used      int
	fragments []hr.Fragment
	seen      map[string]bool
	order     []string
	truncated bool
	full      bool
}

// newContextBuilder 创建预算构建器
func newContextBuilder(budget int) *contextBuilder {
	return &contextBuilder{
		budget: budget,
		seen:   make(map[string]bool),
	}
}

// add 追加片段，返回是否还能继续追加
// 超预算的片段按剩余额度截断正文并置截断标记
func (b *contextBuilder) add(f hr.Fragment) bool {
	if b.full {
		return false
	}
	remaining := b.budget - b.used
	if len(f.Text) > remaining {
		b.truncated = true
		b.full = true
		if remaining <= 0 {
			return false
		}
		f.Text = f.Text[:remaining]
	}
	b.used += len(f.Text)
	f.Rank = len(b.fragments)
	b.fragments = append(b.fragments, f)
	if !b.seen[f.Collection] {
		b.seen[f.Collection] = true
		b.order = append(b.order, f.Collection)
	}
	return !b.full
}

// exhausted 预算是否已耗尽
func (b *contextBuilder) exhausted() bool {
	return b.full || b.used >= b.budget
}

// result 产出检索结果与元数据
func (b *contextBuilder) result() *hr.RetrievalResult {
	return &hr.RetrievalResult{
		Fragments: b.fragments,
		Metadata: hr.RetrievalMetadata{
			Collections:   b.order,
			FragmentCount: len(b.fragments),
			Truncated:     b.truncated,
		},
	}
}
