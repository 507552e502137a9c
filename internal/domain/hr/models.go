package hr

import "fmt"

// Role 用户角色，决定上下文片段中哪些字段可见
type Role string

const (
	// RoleHRLead HR 负责人，完整访问权限
	RoleHRLead Role = "hr_lead"
	// RoleHRJunior 初级 HR，受限访问权限
	RoleHRJunior Role = "hr_junior"
)

// IsValid 检查角色是否合法
func (r Role) IsValid() bool {
	return r == RoleHRLead || r == RoleHRJunior
}

// Topic 查询主题标签
type Topic string

const (
	TopicEmployee  Topic = "employee"
	TopicVisa      Topic = "visa"
	TopicBenefits  Topic = "benefits"
	TopicPolicy    Topic = "policy"
	TopicAggregate Topic = "aggregate"
	TopicGeneral   Topic = "general"
)

// topicPriority 主题检索优先级（值越小越优先）
var topicPriority = map[Topic]int{
	TopicEmployee:  0,
	TopicVisa:      1,
	TopicBenefits:  2,
	TopicPolicy:    3,
	TopicAggregate: 4,
	TopicGeneral:   5,
}

// Priority 返回主题的检索优先级
func (t Topic) Priority() int {
	if p, ok := topicPriority[t]; ok {
		return p
	}
	return len(topicPriority)
}

// TimeWindow 相对时间窗口，以距当前时间的天数偏移表示
// 例如 "next 6 months" -> {0, 180}，"last 30 days" -> {-30, 0}
type TimeWindow struct {
	StartDays int `json:"start_days"`
	EndDays   int `json:"end_days"`
}

// Classification 查询分类结果，每次查询创建一次，下游只读
type Classification struct {
	// Topics 按优先级排序的主题标签，至少包含一个（兜底为 general）
	Topics []Topic `json:"topics"`
	// EmployeeID 提取到的员工 ID，0 表示未提取到
	EmployeeID int `json:"employee_id,omitempty"`
	// VisaType 规范化后的签证类型
	VisaType string `json:"visa_type,omitempty"`
	// JobRole 提取到的职位关键词
	JobRole string `json:"job_role,omitempty"`
	// Window 提取到的相对时间窗口
	Window *TimeWindow `json:"window,omitempty"`
}

// HasTopic 检查分类结果是否包含指定主题
func (c *Classification) HasTopic(t Topic) bool {
	for _, topic := range c.Topics {
		if topic == t {
			return true
		}
	}
	return false
}

// Employee 员工记录
type Employee struct {
	EmployeeID      int     `json:"employeeid"`
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	ContractType    string  `json:"contract_type"`
	JoinDate        string  `json:"join_date"`
	Salary          float64 `json:"salary"`
	VisaType        string  `json:"visa_type"`
	VisaExpiration  string  `json:"visa_expiration"`
	Terminated      bool    `json:"terminated"`
	TerminationDate string  `json:"termination_date,omitempty"`
	Summary         string  `json:"summary"`
}

// Document 固定文档（福利、政策等），按类别键检索
type Document struct {
	CategoryKey string `json:"category_key"`
	Title       string `json:"title"`
	Content     string `json:"content"`
}

// 固定文档类别键
const (
	DocMedicalPlans        = "medical_plans"
	DocDentalBenefits      = "dental_benefits"
	DocVisionBenefits      = "vision_benefits"
	DocEmploymentAgreement = "employment_agreement"
)

// SuggestedQuestion 预置问题及其统计摘要
type SuggestedQuestion struct {
	Question string `json:"question"`
	Summary  string `json:"summary"`
	Fields   string `json:"fields"`
}

// FragmentCategory 上下文片段来源类别
type FragmentCategory string

const (
	CategoryEmployee    FragmentCategory = "employee"
	CategoryTermination FragmentCategory = "termination"
	CategoryVisa        FragmentCategory = "visa"
	CategoryBenefits    FragmentCategory = "benefits"
	CategoryPolicy      FragmentCategory = "policy"
	CategoryAggregate   FragmentCategory = "aggregate"
	CategoryGeneral     FragmentCategory = "general"
)

// Fragment 一条检索出的上下文片段
type Fragment struct {
	// Category 片段来源类别，脱敏规则按类别匹配
	Category FragmentCategory `json:"category"`
	// Collection 来源集合名称
	Collection string `json:"collection"`
	// Rank 相关性排名（越小越靠前）
	Rank int `json:"rank"`
	// Text 渲染后的片段文本
	Text string `json:"text"`
	// Employee 员工类片段的结构化来源，用于字段级脱敏时重新渲染
	Employee *Employee `json:"-"`
}

// RetrievalMetadata 检索元数据
type RetrievalMetadata struct {
	// Collections 实际命中的集合
	Collections []string `json:"collections"`
	// FragmentCount 片段数量
	FragmentCount int `json:"fragment_count"`
	// Truncated 是否因超出上下文预算被截断
	Truncated bool `json:"truncated"`
	// Unclassified 是否有未识别类别的片段未经脱敏直接透传
	Unclassified bool `json:"unclassified"`
}

// RetrievalResult 检索结果，由检索器产出，经访问过滤器消费一次后丢弃
type RetrievalResult struct {
	Fragments []Fragment        `json:"fragments"`
	Metadata  RetrievalMetadata `json:"metadata"`
}

// NotFoundFragmentText 员工不存在时的规范化提示文本
// 显式告知模型查无此人，避免模型凭空编造数据
func NotFoundFragmentText(employeeID int) string {
	return fmt.Sprintf("No employee record found for employee ID %d.", employeeID)
}
