package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/log"
)

// Importer 将 HRWIKI 导出的 JSON 集合文件导入 SQLite
type Importer struct {
	employeeRepo hr.EmployeeRepository
	documentRepo hr.DocumentRepository
	logger       *slog.Logger
}

// NewImporter 创建导入器
func NewImporter(employeeRepo hr.EmployeeRepository, documentRepo hr.DocumentRepository) *Importer {
	return &Importer{
		employeeRepo: employeeRepo,
		documentRepo: documentRepo,
		logger:       log.NewModuleLogger("storage", "importer"),
	}
}

// ImportStats 单次导入统计
type ImportStats struct {
	Files     int
	Employees int
	Documents int
	Questions int
	Skipped   []string
}

// 集合名 -> 固定文档类别键
var documentCollections = map[string]string{
	"EmploymentAgreement":                      hr.DocEmploymentAgreement,
	"Medical plan summary - Price Details 2025": hr.DocMedicalPlans,
	"Delta Dental Benefit Summary":             hr.DocDentalBenefits,
	"Delta Vision Benefit Summary":             hr.DocVisionBenefits,
}

const (
	employeeCollection  = "Employee and Visa sponsorship information"
	questionsCollection = "Possible Questions Summary"
)

// CollectionName 从文件名提取集合名：去掉 "HRWIKI." 前缀和 ".json" 后缀
func CollectionName(filename string) string {
	name := strings.TrimPrefix(filename, "HRWIKI.")
	return strings.TrimSuffix(name, ".json")
}

// ImportDir 导入目录下全部 JSON 集合文件
func (i *Importer) ImportDir(ctx context.Context, dir string) (*ImportStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	stats := &ImportStats{}
	for _, name := range files {
		if err := i.importFile(ctx, filepath.Join(dir, name), stats); err != nil {
			return stats, err
		}
		stats.Files++
	}

	return stats, nil
}

// importFile 导入单个集合文件
func (i *Importer) importFile(ctx context.Context, path string, stats *ImportStats) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	// 兼容单对象和数组两种格式
	records, err := decodeRecords(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	collection := CollectionName(filepath.Base(path))
	i.logger.Info("Importing collection",
		"collection", collection,
		"records", len(records),
	)

	switch {
	case collection == employeeCollection:
		return i.importEmployees(ctx, records, stats)
	case collection == questionsCollection:
		return i.importQuestions(ctx, records, stats)
	default:
		if key, ok := documentCollections[collection]; ok {
			return i.importDocument(ctx, key, collection, records, stats)
		}
		i.logger.Warn("Unknown collection, skipping", "collection", collection)
		stats.Skipped = append(stats.Skipped, collection)
		return nil
	}
}

// decodeRecords 解析 JSON 为记录列表
func decodeRecords(data []byte) ([]map[string]json.RawMessage, error) {
	var records []map[string]json.RawMessage
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var single map[string]json.RawMessage
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []map[string]json.RawMessage{single}, nil
}

// employeeRecord 员工集合的导入格式
type employeeRecord struct {
	EmployeeID      int     `json:"employeeid"`
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	ContractType    string  `json:"contract_type"`
	JoinDate        string  `json:"join_date"`
	Salary          float64 `json:"salary"`
	VisaType        string  `json:"visa_type"`
	VisaExpiration  string  `json:"visa_expiration"`
	Terminated      bool    `json:"terminated"`
	TerminationDate string  `json:"termination_date"`
	Summary         string  `json:"summary"`
}

// importEmployees 导入员工记录
func (i *Importer) importEmployees(ctx context.Context, records []map[string]json.RawMessage, stats *ImportStats) error {
	for _, raw := range records {
		merged, err := json.Marshal(raw)
		if err != nil {
			continue
		}

		var rec employeeRecord
		if err := json.Unmarshal(merged, &rec); err != nil {
			i.logger.Warn("Skipping malformed employee record", "error", err)
			continue
		}
		if rec.EmployeeID == 0 {
			i.logger.Warn("Skipping employee record without employeeid")
			continue
		}

		employee := &hr.Employee{
			EmployeeID:      rec.EmployeeID,
			Name:            rec.Name,
			Position:        rec.Position,
			ContractType:    rec.ContractType,
			JoinDate:        rec.JoinDate,
			Salary:          rec.Salary,
			VisaType:        rec.VisaType,
			VisaExpiration:  rec.VisaExpiration,
			Terminated:      rec.Terminated,
			TerminationDate: rec.TerminationDate,
			Summary:         rec.Summary,
		}
		if err := i.employeeRepo.Save(ctx, employee); err != nil {
			return err
		}
		stats.Employees++
	}
	return nil
}

// importQuestions 导入预置问题
func (i *Importer) importQuestions(ctx context.Context, records []map[string]json.RawMessage, stats *ImportStats) error {
	for _, raw := range records {
		q := &hr.SuggestedQuestion{
			Question: stringField(raw, "question"),
			Summary:  stringField(raw, "summary"),
			Fields:   stringField(raw, "fields"),
		}
		if q.Question == "" {
			continue
		}
		if err := i.documentRepo.SaveSuggestedQuestion(ctx, q); err != nil {
			return err
		}
		stats.Questions++
	}
	return nil
}

// importDocument 将一个集合的全部记录合并为一份固定文档
func (i *Importer) importDocument(ctx context.Context, categoryKey, collection string, records []map[string]json.RawMessage, stats *ImportStats) error {
	var parts []string
	for _, raw := range records {
		// 优先取 content 字段，否则序列化整条记录
		if content := stringField(raw, "content"); content != "" {
			parts = append(parts, content)
			continue
		}
		merged, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		parts = append(parts, string(merged))
	}

	doc := &hr.Document{
		CategoryKey: categoryKey,
		Title:       collection,
		Content:     strings.Join(parts, "\n"),
	}
	if err := i.documentRepo.SaveDocument(ctx, doc); err != nil {
		return err
	}
	stats.Documents++
	return nil
}

// stringField 从原始记录中取字符串字段
func stringField(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}
