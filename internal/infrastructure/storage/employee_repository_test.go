package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/hrwiki/backend/internal/domain/hr"
)

// setupTestDB 创建临时测试数据库
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "hrwiki_test_*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)

	// 启用 WAL 模式
	_, err = db.Exec("PRAGMA journal_mode=WAL;")
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

// seedEmployees 写入测试员工数据
func seedEmployees(t *testing.T, repo hr.EmployeeRepository, employees ...*hr.Employee) {
	t.Helper()
	for _, e := range employees {
		require.NoError(t, repo.Save(context.Background(), e))
	}
}

func TestEmployeeRepository_GetByID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	seedEmployees(t, repo, &hr.Employee{
		EmployeeID:     1503,
		Name:           "Wei Chen",
		Position:       "Software Developer",
		VisaType:       "H-1B",
		VisaExpiration: "2026-03-01",
		Salary:         95000,
	})

	found, err := repo.GetByID(context.Background(), 1503)
	require.NoError(t, err)
	assert.Equal(t, "Wei Chen", found.Name)
	assert.Equal(t, "H-1B", found.VisaType)
	assert.Equal(t, "2026-03-01", found.VisaExpiration)

	// 不存在的 ID 返回哨兵错误
	_, err = repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, hr.ErrEmployeeNotFound)
}

func TestEmployeeRepository_QueryByVisa(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	seedEmployees(t, repo,
		&hr.Employee{EmployeeID: 1502, VisaType: "H-1B", VisaExpiration: farDate(30)},
		&hr.Employee{EmployeeID: 1501, VisaType: "H-1B", VisaExpiration: farDate(400)},
		&hr.Employee{EmployeeID: 1504, VisaType: "OPT", VisaExpiration: farDate(30)},
	)

	// 类型过滤，按 employee_id 升序
	employees, err := repo.QueryByVisa(context.Background(), "H-1B", nil)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, 1501, employees[0].EmployeeID)
	assert.Equal(t, 1502, employees[1].EmployeeID)

	// 大小写不敏感
	employees, err = repo.QueryByVisa(context.Background(), "h-1b", nil)
	require.NoError(t, err)
	assert.Len(t, employees, 2)

	// 时间窗口过滤：未来 180 天内到期
	window := &hr.TimeWindow{StartDays: 0, EndDays: 180}
	employees, err = repo.QueryByVisa(context.Background(), "H-1B", window)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, 1502, employees[0].EmployeeID)
}

func TestEmployeeRepository_QueryByPosition(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	seedEmployees(t, repo,
		&hr.Employee{EmployeeID: 1501, Position: "Software Developer"},
		&hr.Employee{EmployeeID: 1502, Position: "Senior Software Developer"},
		&hr.Employee{EmployeeID: 1503, Position: "Test Analyst"},
	)

	employees, err := repo.QueryByPosition(context.Background(), "developer")
	require.NoError(t, err)
	assert.Len(t, employees, 2)
}

func TestEmployeeRepository_Aggregate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	seedEmployees(t, repo,
		&hr.Employee{EmployeeID: 1501, VisaType: "H-1B"},
		&hr.Employee{EmployeeID: 1502, VisaType: "H-1B"},
		&hr.Employee{EmployeeID: 1503, VisaType: "OPT"},
		&hr.Employee{EmployeeID: 1504},
	)

	counts, err := repo.Aggregate(context.Background(), "visa_type")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"H-1B": 2, "OPT": 1}, counts)

	// 白名单之外的字段报错
	_, err = repo.Aggregate(context.Background(), "salary; DROP TABLE employees")
	assert.Error(t, err)
}

func TestEmployeeRepository_Save_Upsert(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	seedEmployees(t, repo, &hr.Employee{EmployeeID: 1501, Position: "Consultant"})

	// 同 ID 再次保存覆盖旧记录
	seedEmployees(t, repo, &hr.Employee{EmployeeID: 1501, Position: "Project Manager"})

	found, err := repo.GetByID(context.Background(), 1501)
	require.NoError(t, err)
	assert.Equal(t, "Project Manager", found.Position)
}

// farDate 返回距今 days 天的日期字符串
func farDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}
