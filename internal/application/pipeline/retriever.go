package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/hrwiki/backend/internal/domain/chat"
	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/config"
	"github.com/hrwiki/backend/internal/infrastructure/log"
)

// 检索来源集合名，进入检索元数据供调试与审计
const (
	collectionEmployees = "employee_visa_info"
	collectionMedical   = "medical_plans"
	collectionDental    = "dental_benefits"
	collectionVision    = "vision_benefits"
	collectionPolicy    = "employment_agreement"
	collectionQuestions = "questions_asked"
)

// generalQuestionLimit general 兜底片段携带的常见问题条数
const generalQuestionLimit = 3

// Retriever 按分类标签做关键词检索，拼装上下文片段
// 标签按优先级顺序驱动查询，预算裁剪保证输出确定性
type Retriever struct {
	employees hr.EmployeeRepository
	documents hr.DocumentRepository
	manager   *config.Manager
	logger    *slog.Logger
}

// NewRetriever 创建检索器
func NewRetriever(employees hr.EmployeeRepository, documents hr.DocumentRepository, manager *config.Manager) *Retriever {
	return &Retriever{
		employees: employees,
		documents: documents,
		manager:   manager,
		logger:    log.NewModuleLogger("pipeline", "retriever"),
	}
}

// Retrieve 根据分类结果检索上下文
// history 参与契约但当前检索不消费历史，预留给后续指代消解
func (r *Retriever) Retrieve(ctx context.Context, c hr.Classification, history []chat.Message) (*hr.RetrievalResult, error) {
	cfg := r.manager.Current().Retrieval
	builder := newContextBuilder(cfg.MaxContextChars)

	for _, topic := range c.Topics {
		if builder.exhausted() {
			break
		}
		var err error
		switch topic {
		case hr.TopicEmployee:
			err = r.retrieveEmployee(ctx, c, builder)
		case hr.TopicVisa:
			err = r.retrieveVisa(ctx, c, builder, cfg)
		case hr.TopicBenefits:
			err = r.retrieveBenefits(ctx, builder)
		case hr.TopicPolicy:
			err = r.retrievePolicy(ctx, builder)
		case hr.TopicAggregate:
			err = r.retrieveAggregate(ctx, c, builder)
		case hr.TopicGeneral:
			err = r.retrieveGeneral(ctx, builder)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve topic %s: %w", topic, err)
		}
	}

	result := builder.result()
	r.logger.Debug("retrieval completed",
		"topics", fmt.Sprintf("%v", c.Topics),
		"fragments", result.Metadata.FragmentCount,
		"collections", strings.Join(result.Metadata.Collections, ","),
		"truncated", result.Metadata.Truncated)
	return result, nil
}

// retrieveEmployee 员工点查：命中则输出详情片段，离职员工追加离职片段
// 查无此人不是错误，输出标准未找到文案，让模型基于事实作答
func (r *Retriever) retrieveEmployee(ctx context.Context, c hr.Classification, builder *contextBuilder) error {
	if c.EmployeeID == 0 {
		return nil
	}
	employee, err := r.employees.GetByID(ctx, c.EmployeeID)
	if err != nil {
		if errors.Is(err, hr.ErrEmployeeNotFound) {
			builder.add(hr.Fragment{
				Category:   hr.CategoryEmployee,
				Collection: collectionEmployees,
				Text:       hr.NotFoundFragmentText(c.EmployeeID),
			})
			return nil
		}
		return err
	}
	builder.add(hr.Fragment{
		Category:   hr.CategoryEmployee,
		Collection: collectionEmployees,
		Text:       renderEmployeeBlock(employee, visibilityFull),
		Employee:   employee,
	})
	if employee.Terminated {
		builder.add(hr.Fragment{
			Category:   hr.CategoryTermination,
			Collection: collectionEmployees,
			Text:       renderTerminationBlock(employee),
			Employee:   employee,
		})
	}
	return nil
}

// retrieveVisa 签证检索：指定类型走类型过滤，否则抽样展示
// 与 aggregate 标签同现时让位给统计查询，避免清单和计数重复
func (r *Retriever) retrieveVisa(ctx context.Context, c hr.Classification, builder *contextBuilder, cfg config.RetrievalConfig) error {
	if c.HasTopic(hr.TopicAggregate) {
		return nil
	}
	var (
		employees []*hr.Employee
		err       error
	)
	if c.VisaType != "" {
		employees, err = r.employees.QueryByVisa(ctx, c.VisaType, c.Window)
		if err != nil {
			return err
		}
		if len(employees) > cfg.VisaListLimit {
			employees = employees[:cfg.VisaListLimit]
		}
		header := fmt.Sprintf("=== EMPLOYEES WITH VISA TYPE: %s ===", strings.ToUpper(c.VisaType))
		if c.Window != nil {
			header += fmt.Sprintf("\nTime window: %d to %d days from today", c.Window.StartDays, c.Window.EndDays)
		}
		header += fmt.Sprintf("\nTOTAL COUNT: %d employees", len(employees))
		builder.add(hr.Fragment{
			Category:   hr.CategoryVisa,
			Collection: collectionEmployees,
			Text:       header,
		})
	} else {
		employees, err = r.employees.SampleWithVisa(ctx, cfg.SampleLimit)
		if err != nil {
			return err
		}
		builder.add(hr.Fragment{
			Category:   hr.CategoryVisa,
			Collection: collectionEmployees,
			Text:       "=== VISA SPONSORSHIP SAMPLE ===",
		})
	}
	for _, e := range employees {
		if !builder.add(hr.Fragment{
			Category:   hr.CategoryVisa,
			Collection: collectionEmployees,
			Text:       renderEmployeeLine(e, visibilityFull),
			Employee:   e,
		}) {
			break
		}
	}
	return nil
}

// retrieveBenefits 福利文档：医疗、牙科、视力按固定顺序拼入
func (r *Retriever) retrieveBenefits(ctx context.Context, builder *contextBuilder) error {
	docs := []struct {
		key        string
		collection string
		header     string
	}{
		{hr.DocMedicalPlans, collectionMedical, "=== MEDICAL INSURANCE PLANS ==="},
		{hr.DocDentalBenefits, collectionDental, "=== DENTAL BENEFITS ==="},
		{hr.DocVisionBenefits, collectionVision, "=== VISION BENEFITS ==="},
	}
	for _, d := range docs {
		doc, err := r.documents.GetDocument(ctx, d.key)
		if err != nil {
			if errors.Is(err, hr.ErrDocumentNotFound) {
				continue
			}
			return err
		}
		if !builder.add(hr.Fragment{
			Category:   hr.CategoryBenefits,
			Collection: d.collection,
			Text:       d.header + "\n" + doc.Content,
		}) {
			break
		}
	}
	return nil
}

// retrievePolicy 雇佣协议文档
func (r *Retriever) retrievePolicy(ctx context.Context, builder *contextBuilder) error {
	doc, err := r.documents.GetDocument(ctx, hr.DocEmploymentAgreement)
	if err != nil {
		if errors.Is(err, hr.ErrDocumentNotFound) {
			return nil
		}
		return err
	}
	builder.add(hr.Fragment{
		Category:   hr.CategoryPolicy,
		Collection: collectionPolicy,
		Text:       "=== EMPLOYMENT AGREEMENT / COMPANY POLICY ===\n" + doc.Content,
	})
	return nil
}

// retrieveAggregate 统计检索：分组计数，只输出聚合数字不输出个体记录
func (r *Retriever) retrieveAggregate(ctx context.Context, c hr.Classification, builder *contextBuilder) error {
	if c.JobRole != "" {
		employees, err := r.employees.QueryByPosition(ctx, c.JobRole)
		if err != nil {
			return err
		}
		builder.add(hr.Fragment{
			Category:   hr.CategoryAggregate,
			Collection: collectionEmployees,
			Text: fmt.Sprintf("=== EMPLOYEES WITH ROLE: %s ===\nTOTAL COUNT: %d employees",
				strings.ToUpper(c.JobRole), len(employees)),
		})
	}

	groupBy := "visa_type"
	if c.VisaType == "" && !c.HasTopic(hr.TopicVisa) && c.JobRole != "" {
		groupBy = "position"
	}
	counts, err := r.employees.Aggregate(ctx, groupBy)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "=== EMPLOYEE STATISTICS BY %s ===", strings.ToUpper(groupBy))
	for _, k := range keys {
		fmt.Fprintf(&b, "\n- %s: %d", k, counts[k])
	}
	builder.add(hr.Fragment{
		Category:   hr.CategoryAggregate,
		Collection: collectionEmployees,
		Text:       b.String(),
	})
	return nil
}

// retrieveGeneral 无标签兜底：能力说明加常见问题
func (r *Retriever) retrieveGeneral(ctx context.Context, builder *contextBuilder) error {
	var b strings.Builder
	b.WriteString("=== GENERAL HR INFORMATION ===\n")
	b.WriteString("I have access to employee records, visa and immigration information, benefits documents (medical, dental, vision), and company employment policies.")

	questions, err := r.documents.ListSuggestedQuestions(ctx)
	if err != nil {
		return err
	}
	if len(questions) > 0 {
		b.WriteString("\nCommon questions I can help with:")
		if len(questions) > generalQuestionLimit {
			questions = questions[:generalQuestionLimit]
		}
		for _, q := range questions {
			fmt.Fprintf(&b, "\n- %s", q.Question)
		}
	}
	builder.add(hr.Fragment{
		Category:   hr.CategoryGeneral,
		Collection: collectionQuestions,
		Text:       b.String(),
	})
	return nil
}
