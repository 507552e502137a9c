package handler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/config"
	applog "github.com/hrwiki/backend/internal/infrastructure/log"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testManager 写入给定 yaml 并加载配置管理器
func testManager(t *testing.T, yaml string) *config.Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	manager, err := config.NewManagerWithPath(path, applog.NewModuleLogger("handler", "test"))
	require.NoError(t, err)
	return manager
}

// stubEmployeeRepo 定长员工仓库
type stubEmployeeRepo struct {
	employees map[int]*hr.Employee
	failWith  error
}

func (r *stubEmployeeRepo) GetByID(_ context.Context, employeeID int) (*hr.Employee, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	e, ok := r.employees[employeeID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", hr.ErrEmployeeNotFound, employeeID)
	}
	return e, nil
}

func (r *stubEmployeeRepo) QueryByVisa(_ context.Context, visaType string, _ *hr.TimeWindow) ([]*hr.Employee, error) {
	return nil, r.failWith
}

func (r *stubEmployeeRepo) QueryByPosition(_ context.Context, _ string) ([]*hr.Employee, error) {
	return nil, r.failWith
}

func (r *stubEmployeeRepo) Aggregate(_ context.Context, _ string) (map[string]int, error) {
	return map[string]int{}, r.failWith
}

func (r *stubEmployeeRepo) SampleWithVisa(_ context.Context, _ int) ([]*hr.Employee, error) {
	return nil, r.failWith
}

func (r *stubEmployeeRepo) Save(_ context.Context, e *hr.Employee) error {
	r.employees[e.EmployeeID] = e
	return nil
}

// stubDocumentRepo 定长文档仓库
type stubDocumentRepo struct {
	questions []*hr.SuggestedQuestion
	failWith  error
}

func (r *stubDocumentRepo) GetDocument(_ context.Context, categoryKey string) (*hr.Document, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return nil, fmt.Errorf("%w: %s", hr.ErrDocumentNotFound, categoryKey)
}

func (r *stubDocumentRepo) SaveDocument(_ context.Context, _ *hr.Document) error { return nil }

func (r *stubDocumentRepo) ListSuggestedQuestions(_ context.Context) ([]*hr.SuggestedQuestion, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.questions, nil
}

func (r *stubDocumentRepo) SaveSuggestedQuestion(_ context.Context, q *hr.SuggestedQuestion) error {
	r.questions = append(r.questions, q)
	return nil
}
