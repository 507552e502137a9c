package pipeline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hrwiki/backend/internal/domain/hr"
)

// Classifier 查询分类器
// 基于关键词表的启发式分类，只保证终止和非空输出，不保证语义正确
type Classifier struct {
	now func() time.Time
}

// NewClassifier 创建查询分类器
func NewClassifier() *Classifier {
	return &Classifier{now: time.Now}
}

// topicRule 主题匹配规则：关键词模式 -> 主题标签
type topicRule struct {
	topic    hr.Topic
	patterns []*regexp.Regexp
}

// compilePatterns 编译一组小写正则
func compilePatterns(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(expr))
	}
	return patterns
}

// topicRules 表驱动的匹配规则，按固定优先级排列
// 短词用 \b 边界，避免 "opt" 命中 "option" 之类的误匹配
var topicRules = []topicRule{
	{
		topic: hr.TopicEmployee,
		patterns: compilePatterns(
			`employee id`, `employee number`, `find employee`, `who is employee`,
		),
	},
	{
		topic: hr.TopicVisa,
		patterns: compilePatterns(
			`visa`, `immigration`, `green card`, `\bh-?1b\b`, `\bopt\b`, `\bcpt\b`,
		),
	},
	{
		topic: hr.TopicBenefits,
		patterns: compilePatterns(
			`health insurance`, `medical plan`, `\bdental\b`, `\bvision\b`,
			`401k`, `benefit`,
		),
	},
	{
		topic: hr.TopicPolicy,
		patterns: compilePatterns(
			`sick day`, `vacation`, `\bpto\b`, `paid time off`, `holiday`,
			`leave policy`,
		),
	},
	{
		topic: hr.TopicAggregate,
		patterns: compilePatterns(
			`how many`, `\bcount\b`, `\btotal\b`, `number of`, `list all`,
			`which employees`, `who has`, `show me all`, `show all`,
		),
	},
}

// employeeIDPattern 员工 ID 格式：4 位整数（1000-9999）
var employeeIDPattern = regexp.MustCompile(`\b[1-9]\d{3}\b`)

// visaRule 签证类型同义词 -> 规范化取值，长词在前避免被短词截胡
var visaRules = []struct {
	pattern   *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`\bh-?1b extension\b`), "H-1B Extension"},
	{regexp.MustCompile(`\bopt[- ]extension\b`), "OPT-Extension"},
	{regexp.MustCompile(`\bh-?1b\b`), "H-1B"},
	{regexp.MustCompile(`\bgreen card\b`), "Green Card"},
	{regexp.MustCompile(`\btn visa\b`), "TN Visa"},
	{regexp.MustCompile(`\bopt\b`), "OPT"},
	{regexp.MustCompile(`\bcpt\b`), "CPT"},
	{regexp.MustCompile(`\bcitizen\b`), "Citizen"},
}

// jobRoleRules 职位同义词 -> 规范化职位，长词在前
var jobRoleRules = []struct {
	pattern   *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`\btechnical project manager`), "Technical Project Manager"},
	{regexp.MustCompile(`\bproject manager`), "Project Manager"},
	{regexp.MustCompile(`\bsoftware developer`), "Software Developer"},
	{regexp.MustCompile(`\bsoftware engineer`), "Software Developer"},
	{regexp.MustCompile(`\bsales executive`), "Sales Executive"},
	{regexp.MustCompile(`\bsupport executive`), "Support Executive"},
	{regexp.MustCompile(`\btest analyst`), "Test Analyst"},
	{regexp.MustCompile(`\bquality assurance`), "Test Analyst"},
	{regexp.MustCompile(`\btester`), "Test Analyst"},
	{regexp.MustCompile(`\bconsultant`), "Consultant"},
	{regexp.MustCompile(`\bdeveloper`), "Developer"},
}

// 时间短语模式
var (
	futureWindowPattern = regexp.MustCompile(`(?:in|within|next)\s+(\d+)\s+(day|month|year)s?`)
	pastWindowPattern   = regexp.MustCompile(`(?:last|past|previous)\s+(\d+)\s+(day|month|year)s?`)
	bareWindowPattern   = regexp.MustCompile(`(\d+)\s+(day|month|year)s?`)
	expiringSoonPattern = regexp.MustCompile(`expir(?:ing|es?)\s+soon`)
)

// expiringSoonDays "expiring soon" 对应的窗口天数
const expiringSoonDays = 60

// Classify 对用户文本做主题分类与实体提取
// 永不失败：无命中时兜底返回 general 标签、无实体
func (c *Classifier) Classify(text string) hr.Classification {
	lower := strings.ToLower(text)

	classification := hr.Classification{
		EmployeeID: extractEmployeeID(lower),
		VisaType:   extractVisaType(lower),
		JobRole:    extractJobRole(lower),
		Window:     c.extractTimeWindow(lower),
	}

	matched := make(map[hr.Topic]bool)
	for _, rule := range topicRules {
		for _, p := range rule.patterns {
			if p.MatchString(lower) {
				matched[rule.topic] = true
				break
			}
		}
	}

	// 提取到员工 ID 时强制附加 employee 标签，
	// 模糊表述下也能走直接点查
	if classification.EmployeeID != 0 {
		matched[hr.TopicEmployee] = true
	}

	if len(matched) == 0 {
		classification.Topics = []hr.Topic{hr.TopicGeneral}
		return classification
	}

	topics := make([]hr.Topic, 0, len(matched))
	for topic := range matched {
		topics = append(topics, topic)
	}
	sort.Slice(topics, func(i, j int) bool {
		return topics[i].Priority() < topics[j].Priority()
	})
	classification.Topics = topics

	return classification
}

// extractEmployeeID 提取员工 ID
// 多实体策略：只取第一个匹配（多 ID 查询行为未定义，取首个并在此固定下来）
func extractEmployeeID(lower string) int {
	match := employeeIDPattern.FindString(lower)
	if match == "" {
		return 0
	}
	id, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return id
}

// extractVisaType 提取规范化签证类型
func extractVisaType(lower string) string {
	for _, rule := range visaRules {
		if rule.pattern.MatchString(lower) {
			return rule.canonical
		}
	}
	return ""
}

// extractJobRole 提取规范化职位关键词
func extractJobRole(lower string) string {
	for _, rule := range jobRoleRules {
		if rule.pattern.MatchString(lower) {
			return rule.canonical
		}
	}
	return ""
}

// extractTimeWindow 提取相对时间窗口
func (c *Classifier) extractTimeWindow(lower string) *hr.TimeWindow {
	if m := futureWindowPattern.FindStringSubmatch(lower); m != nil {
		days := windowDays(m[1], m[2])
		return &hr.TimeWindow{StartDays: 0, EndDays: days}
	}
	if m := pastWindowPattern.FindStringSubmatch(lower); m != nil {
		days := windowDays(m[1], m[2])
		return &hr.TimeWindow{StartDays: -days, EndDays: 0}
	}
	if expiringSoonPattern.MatchString(lower) {
		return &hr.TimeWindow{StartDays: 0, EndDays: expiringSoonDays}
	}
	if strings.Contains(lower, "this year") {
		now := c.now()
		yearEnd := time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location())
		yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return &hr.TimeWindow{
			StartDays: -int(now.Sub(yearStart).Hours() / 24),
			EndDays:   int(yearEnd.Sub(now).Hours()/24) + 1,
		}
	}
	if m := bareWindowPattern.FindStringSubmatch(lower); m != nil {
		days := windowDays(m[1], m[2])
		return &hr.TimeWindow{StartDays: 0, EndDays: days}
	}
	return nil
}

// windowDays 把数量和单位换算成天数
func windowDays(count, unit string) int {
	n, err := strconv.Atoi(count)
	if err != nil {
		return 0
	}
	switch unit {
	case "day":
		return n
	case "month":
		return n * 30
	case "year":
		return n * 365
	default:
		return 0
	}
}
