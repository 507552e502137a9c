package pipeline

import (
	"fmt"
	"strings"

	"github.com/hrwiki/backend/internal/domain/hr"
)

// fieldVisibility 员工字段可见级别
type fieldVisibility int

const (
	// visibilityFull HR Lead 视角：全字段
	visibilityFull fieldVisibility = iota
	// visibilityRestricted HR Junior 视角：隐藏薪资与签证细节
	visibilityRestricted
)

// 受限字段的替代文案
const (
	restrictedSalaryText = "[Restricted - HR Lead access required]"
	restrictedVisaText   = "visa on file"
)

// renderEmployeeBlock 渲染员工详情片段正文
func renderEmployeeBlock(e *hr.Employee, visibility fieldVisibility) string {
	if !hasStructuredFields(e) {
		return renderRawSummary(e, visibility)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== EMPLOYEE %d INFORMATION ===\n", e.EmployeeID)
	fmt.Fprintf(&b, "Name: %s\n", e.Name)
	if e.Position != "" {
		fmt.Fprintf(&b, "Current Position: %s\n", e.Position)
	}
	if e.ContractType != "" {
		fmt.Fprintf(&b, "Contract Type: %s\n", e.ContractType)
	}
	if e.JoinDate != "" {
		fmt.Fprintf(&b, "Join Date: %s\n", e.JoinDate)
	}
	if visibility == visibilityFull {
		if e.Salary > 0 {
			fmt.Fprintf(&b, "Annual Salary: $%.2f\n", e.Salary)
		}
	} else {
		fmt.Fprintf(&b, "Annual Salary: %s\n", restrictedSalaryText)
	}
	if e.VisaType != "" {
		if visibility == visibilityFull {
			fmt.Fprintf(&b, "Visa Type: %s\n", e.VisaType)
			if e.VisaExpiration != "" {
				fmt.Fprintf(&b, "Visa Expiration: %s\n", e.VisaExpiration)
			}
		} else {
			fmt.Fprintf(&b, "Visa Status: %s\n", restrictedVisaText)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderEmployeeLine 渲染签证清单里的单行员工条目
func renderEmployeeLine(e *hr.Employee, visibility fieldVisibility) string {
	if !hasStructuredFields(e) {
		return fmt.Sprintf("Employee %d: %s", e.EmployeeID, sanitizeSummary(e.Summary, visibility))
	}
	parts := []string{fmt.Sprintf("Employee %d: %s", e.EmployeeID, e.Name)}
	if e.Position != "" {
		parts = append(parts, e.Position)
	}
	if visibility == visibilityFull {
		if e.VisaType != "" {
			parts = append(parts, fmt.Sprintf("Visa: %s", e.VisaType))
		}
		if e.VisaExpiration != "" {
			parts = append(parts, fmt.Sprintf("Expires: %s", e.VisaExpiration))
		}
	} else {
		parts = append(parts, restrictedVisaText)
	}
	return strings.Join(parts, " | ")
}

// renderTerminationBlock 渲染离职记录片段
func renderTerminationBlock(e *hr.Employee) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== TERMINATION RECORD: EMPLOYEE %d ===\n", e.EmployeeID)
	fmt.Fprintf(&b, "Name: %s\n", e.Name)
	if e.TerminationDate != "" {
		fmt.Fprintf(&b, "Termination Date: %s", e.TerminationDate)
	} else {
		b.WriteString("Status: Terminated")
	}
	return b.String()
}

// hasStructuredFields 结构化字段是否可用；不可用时回退到原始摘要文本
func hasStructuredFields(e *hr.Employee) bool {
	return e != nil && e.Name != ""
}

// renderRawSummary 无结构化字段时的兜底渲染
func renderRawSummary(e *hr.Employee, visibility fieldVisibility) string {
	header := fmt.Sprintf("=== EMPLOYEE %d INFORMATION ===\n", e.EmployeeID)
	return header + sanitizeSummary(e.Summary, visibility)
}

// sanitizeSummary 按行过滤原始摘要里的敏感字段
// 只在导入数据缺少结构化字段时走到这里，宁可多删不可漏删
func sanitizeSummary(text string, visibility fieldVisibility) string {
	if visibility == visibilityFull || text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "salary"), strings.Contains(lower, "compensation"):
			kept = append(kept, "Annual Salary: "+restrictedSalaryText)
		case strings.Contains(lower, "visa"):
			kept = append(kept, "Visa Status: "+restrictedVisaText)
		default:
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
