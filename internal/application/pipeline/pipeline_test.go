package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/config"
	applog "github.com/hrwiki/backend/internal/infrastructure/log"
)

// testManager 基于默认配置的管理器，指向不存在的文件即走默认值
func testManager(t *testing.T) *config.Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := config.NewManagerWithPath(path, applog.NewModuleLogger("pipeline", "test"))
	require.NoError(t, err)
	return m
}

// fakeEmployeeRepo 内存员工仓库
type fakeEmployeeRepo struct {
	employees map[int]*hr.Employee
	failWith  error
}

func newFakeEmployeeRepo(employees ...*hr.Employee) *fakeEmployeeRepo {
	repo := &fakeEmployeeRepo{employees: make(map[int]*hr.Employee)}
	for _, e := range employees {
		repo.employees[e.EmployeeID] = e
	}
	return repo
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, employeeID int) (*hr.Employee, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	e, ok := r.employees[employeeID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", hr.ErrEmployeeNotFound, employeeID)
	}
	return e, nil
}

func (r *fakeEmployeeRepo) QueryByVisa(_ context.Context, visaType string, _ *hr.TimeWindow) ([]*hr.Employee, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.sorted(func(e *hr.Employee) bool { return e.VisaType == visaType }), nil
}

func (r *fakeEmployeeRepo) QueryByPosition(_ context.Context, position string) ([]*hr.Employee, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.sorted(func(e *hr.Employee) bool { return e.Position == position }), nil
}

func (r *fakeEmployeeRepo) Aggregate(_ context.Context, groupBy string) (map[string]int, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	counts := make(map[string]int)
	for _, e := range r.employees {
		switch groupBy {
		case "visa_type":
			if e.VisaType != "" {
				counts[e.VisaType]++
			}
		case "position":
			if e.Position != "" {
				counts[e.Position]++
			}
		}
	}
	return counts, nil
}

func (r *fakeEmployeeRepo) SampleWithVisa(_ context.Context, limit int) ([]*hr.Employee, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	all := r.sorted(func(e *hr.Employee) bool { return e.VisaType != "" })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeEmployeeRepo) Save(_ context.Context, employee *hr.Employee) error {
	r.employees[employee.EmployeeID] = employee
	return nil
}

// sorted 按员工 ID 升序过滤，保持与 sqlite 实现一致的确定性排序
func (r *fakeEmployeeRepo) sorted(keep func(*hr.Employee) bool) []*hr.Employee {
	var out []*hr.Employee
	for id := 0; id < 10000; id++ {
		if e, ok := r.employees[id]; ok && keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// fakeDocumentRepo 内存文档仓库
type fakeDocumentRepo struct {
	documents map[string]*hr.Document
	questions []*hr.SuggestedQuestion
	failWith  error
}

func newFakeDocumentRepo(docs ...*hr.Document) *fakeDocumentRepo {
	repo := &fakeDocumentRepo{documents: make(map[string]*hr.Document)}
	for _, d := range docs {
		repo.documents[d.CategoryKey] = d
	}
	return repo
}

func (r *fakeDocumentRepo) GetDocument(_ context.Context, categoryKey string) (*hr.Document, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	d, ok := r.documents[categoryKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s", hr.ErrDocumentNotFound, categoryKey)
	}
	return d, nil
}

func (r *fakeDocumentRepo) SaveDocument(_ context.Context, doc *hr.Document) error {
	r.documents[doc.CategoryKey] = doc
	return nil
}

func (r *fakeDocumentRepo) ListSuggestedQuestions(_ context.Context) ([]*hr.SuggestedQuestion, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.questions, nil
}

func (r *fakeDocumentRepo) SaveSuggestedQuestion(_ context.Context, q *hr.SuggestedQuestion) error {
	r.questions = append(r.questions, q)
	return nil
}
