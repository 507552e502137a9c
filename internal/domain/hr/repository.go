package hr

import "context"

// EmployeeRepository 员工集合的存储适配器接口
// 同一数据代下，相同输入必须返回确定性的结果和排序
type EmployeeRepository interface {
	// GetByID 按员工 ID 点查，不存在返回 ErrEmployeeNotFound
	GetByID(ctx context.Context, employeeID int) (*Employee, error)
	// QueryByVisa 按签证类型过滤，window 非空时附加到期时间窗口过滤
	QueryByVisa(ctx context.Context, visaType string, window *TimeWindow) ([]*Employee, error)
	// QueryByPosition 按职位关键词过滤
	QueryByPosition(ctx context.Context, position string) ([]*Employee, error)
	// Aggregate 按指定字段分组计数，groupBy 取 "visa_type"/"position"/"contract_type"
	Aggregate(ctx context.Context, groupBy string) (map[string]int, error)
	// SampleWithVisa 取若干条带签证信息的样例记录
	SampleWithVisa(ctx context.Context, limit int) ([]*Employee, error)
	// Save 保存员工记录（导入用，upsert 语义）
	Save(ctx context.Context, employee *Employee) error
}

// DocumentRepository 固定文档与预置问题集合的存储适配器接口
type DocumentRepository interface {
	// GetDocument 按类别键取固定文档，不存在返回 ErrDocumentNotFound
	GetDocument(ctx context.Context, categoryKey string) (*Document, error)
	// SaveDocument 保存固定文档（导入用，upsert 语义）
	SaveDocument(ctx context.Context, doc *Document) error
	// ListSuggestedQuestions 列出全部预置问题
	ListSuggestedQuestions(ctx context.Context) ([]*SuggestedQuestion, error)
	// SaveSuggestedQuestion 保存预置问题（导入用）
	SaveSuggestedQuestion(ctx context.Context, q *SuggestedQuestion) error
}
