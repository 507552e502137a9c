package pipeline

import (
	"log/slog"

	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/log"
)

// redactionRule 单条脱敏规则：输入片段，输出处理后片段和是否保留
type redactionRule func(f hr.Fragment) (hr.Fragment, bool)

// ruleKey 规则键：片段类别 + 请求者角色
type ruleKey struct {
	category hr.FragmentCategory
	role     hr.Role
}

// AccessFilter 检索后按角色做字段级脱敏
// 规则表声明式给全，新增类别必须显式登记，未登记的按保守放行并打标
type AccessFilter struct {
	rules  map[ruleKey]redactionRule
	logger *slog.Logger
}

// NewAccessFilter 创建访问过滤器
func NewAccessFilter() *AccessFilter {
	f := &AccessFilter{
		rules:  make(map[ruleKey]redactionRule),
		logger: log.NewModuleLogger("pipeline", "redaction"),
	}
	f.registerRules()
	return f
}

// registerRules 登记全量 (类别, 角色) 规则表
func (f *AccessFilter) registerRules() {
	passthrough := func(frag hr.Fragment) (hr.Fragment, bool) { return frag, true }
	drop := func(frag hr.Fragment) (hr.Fragment, bool) { return hr.Fragment{}, false }

	categories := []hr.FragmentCategory{
		hr.CategoryEmployee,
		hr.CategoryTermination,
		hr.CategoryVisa,
		hr.CategoryBenefits,
		hr.CategoryPolicy,
		hr.CategoryAggregate,
		hr.CategoryGeneral,
	}

	// HR Lead 全量放行
	for _, c := range categories {
		f.rules[ruleKey{c, hr.RoleHRLead}] = passthrough
	}

	// HR Junior：员工类片段字段级脱敏，离职记录整体剔除，文档与统计放行
	f.rules[ruleKey{hr.CategoryEmployee, hr.RoleHRJunior}] = redactEmployeeFragment
	f.rules[ruleKey{hr.CategoryVisa, hr.RoleHRJunior}] = redactVisaFragment
	f.rules[ruleKey{hr.CategoryTermination, hr.RoleHRJunior}] = drop
	f.rules[ruleKey{hr.CategoryBenefits, hr.RoleHRJunior}] = passthrough
	f.rules[ruleKey{hr.CategoryPolicy, hr.RoleHRJunior}] = passthrough
	f.rules[ruleKey{hr.CategoryAggregate, hr.RoleHRJunior}] = passthrough
	f.rules[ruleKey{hr.CategoryGeneral, hr.RoleHRJunior}] = passthrough
}

// Filter 对检索结果应用角色规则
// 只过滤不新增，输出片段保持输入相对顺序
func (f *AccessFilter) Filter(result *hr.RetrievalResult, role hr.Role) *hr.RetrievalResult {
	filtered := &hr.RetrievalResult{
		Fragments: make([]hr.Fragment, 0, len(result.Fragments)),
		Metadata:  result.Metadata,
	}
	for _, frag := range result.Fragments {
		rule, ok := f.rules[ruleKey{frag.Category, role}]
		if !ok {
			// 未登记类别：保守放行并在元数据打标，便于排查规则缺口
			f.logger.Warn("unregistered fragment category, passing through",
				"category", string(frag.Category), "role", string(role))
			filtered.Metadata.Unclassified = true
			filtered.Fragments = append(filtered.Fragments, frag)
			continue
		}
		out, keep := rule(frag)
		if keep {
			filtered.Fragments = append(filtered.Fragments, out)
		}
	}
	filtered.Metadata.FragmentCount = len(filtered.Fragments)
	return filtered
}

// redactEmployeeFragment 员工详情片段脱敏
// 用受限可见级别重新渲染，而不是在渲染后的文本上打补丁
func redactEmployeeFragment(frag hr.Fragment) (hr.Fragment, bool) {
	if frag.Employee == nil {
		// 无结构化载荷（如未找到文案），原样保留
		return frag, true
	}
	frag.Text = renderEmployeeBlock(frag.Employee, visibilityRestricted)
	return frag, true
}

// redactVisaFragment 签证清单条目脱敏
func redactVisaFragment(frag hr.Fragment) (hr.Fragment, bool) {
	if frag.Employee == nil {
		return frag, true
	}
	frag.Text = renderEmployeeLine(frag.Employee, visibilityRestricted)
	return frag, true
}
