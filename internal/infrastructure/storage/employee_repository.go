package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hrwiki/backend/internal/domain/hr"
)

// employeeRepository 员工集合的 SQLite 仓储实现
type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository 创建员工仓储实例
func NewEmployeeRepository(db *sql.DB) hr.EmployeeRepository {
	// 确保表存在
	if err := initEmployeeTable(db); err != nil {
		// 初始化失败时记录错误但不阻止创建
		fmt.Printf("failed to init employees table: %v\n", err)
	}
	return &employeeRepository{db: db}
}

// initEmployeeTable 初始化员工表
func initEmployeeTable(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS employees (
		employee_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT '',
		contract_type TEXT NOT NULL DEFAULT '',
		join_date TEXT NOT NULL DEFAULT '',
		salary REAL NOT NULL DEFAULT 0,
		visa_type TEXT NOT NULL DEFAULT '',
		visa_expiration TEXT NOT NULL DEFAULT '',
		terminated INTEGER NOT NULL DEFAULT 0,
		termination_date TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT ''
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create employees table: %w", err)
	}

	// 创建索引
	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_employees_visa_type ON employees(visa_type);
	CREATE INDEX IF NOT EXISTS idx_employees_position ON employees(position);
	`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create employees indexes: %w", err)
	}

	return nil
}

const employeeColumns = `employee_id, name, position, contract_type, join_date,
	salary, visa_type, visa_expiration, terminated, termination_date, summary`

// scanEmployee 从查询行扫描员工记录
func scanEmployee(row interface{ Scan(dest ...any) error }) (*hr.Employee, error) {
	var e hr.Employee
	var terminated int
	err := row.Scan(
		&e.EmployeeID, &e.Name, &e.Position, &e.ContractType, &e.JoinDate,
		&e.Salary, &e.VisaType, &e.VisaExpiration, &terminated,
		&e.TerminationDate, &e.Summary,
	)
	if err != nil {
		return nil, err
	}
	e.Terminated = terminated != 0
	return &e, nil
}

// GetByID 按员工 ID 点查
func (r *employeeRepository) GetByID(ctx context.Context, employeeID int) (*hr.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = ?`

	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hr.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("%w: get employee %d: %v", hr.ErrStoreUnavailable, employeeID, err)
	}
	return employee, nil
}

// QueryByVisa 按签证类型过滤，window 非空时附加到期时间窗口过滤
// 固定按 employee_id 升序返回，保证相同输入下结果有序一致
func (r *employeeRepository) QueryByVisa(ctx context.Context, visaType string, window *hr.TimeWindow) ([]*hr.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE visa_type = ? COLLATE NOCASE`
	args := []any{visaType}

	if window != nil {
		query += ` AND visa_expiration != ''
			AND date(visa_expiration) >= date('now', ?)
			AND date(visa_expiration) <= date('now', ?)`
		args = append(args,
			fmt.Sprintf("%+d days", window.StartDays),
			fmt.Sprintf("%+d days", window.EndDays),
		)
	}
	query += ` ORDER BY employee_id`

	return r.queryEmployees(ctx, query, args...)
}

// QueryByPosition 按职位关键词过滤
func (r *employeeRepository) QueryByPosition(ctx context.Context, position string) ([]*hr.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees
		WHERE position LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY employee_id`
	return r.queryEmployees(ctx, query, position)
}

// aggregateColumns 分组字段白名单，防止拼接任意列名
var aggregateColumns = map[string]string{
	"visa_type":     "visa_type",
	"position":      "position",
	"contract_type": "contract_type",
}

// Aggregate 按指定字段分组计数
func (r *employeeRepository) Aggregate(ctx context.Context, groupBy string) (map[string]int, error) {
	column, ok := aggregateColumns[groupBy]
	if !ok {
		return nil, fmt.Errorf("unsupported aggregate field: %s", groupBy)
	}

	query := fmt.Sprintf(
		`SELECT %s, COUNT(*) FROM employees WHERE %s != '' GROUP BY %s ORDER BY %s`,
		column, column, column, column,
	)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate employees by %s: %v", hr.ErrStoreUnavailable, groupBy, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("%w: scan aggregate row: %v", hr.ErrStoreUnavailable, err)
		}
		counts[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate aggregate rows: %v", hr.ErrStoreUnavailable, err)
	}

	return counts, nil
}

// SampleWithVisa 取若干条带签证信息的样例记录
func (r *employeeRepository) SampleWithVisa(ctx context.Context, limit int) ([]*hr.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees
		WHERE visa_type != '' ORDER BY employee_id LIMIT ?`
	return r.queryEmployees(ctx, query, limit)
}

// Save 保存员工记录，upsert 语义
func (r *employeeRepository) Save(ctx context.Context, e *hr.Employee) error {
	query := `
		INSERT OR REPLACE INTO employees
		(` + employeeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	terminated := 0
	if e.Terminated {
		terminated = 1
	}

	_, err := r.db.ExecContext(ctx, query,
		e.EmployeeID, e.Name, e.Position, e.ContractType, e.JoinDate,
		e.Salary, e.VisaType, e.VisaExpiration, terminated,
		e.TerminationDate, e.Summary,
	)
	if err != nil {
		return fmt.Errorf("%w: save employee %d: %v", hr.ErrStoreUnavailable, e.EmployeeID, err)
	}
	return nil
}

// queryEmployees 执行多行员工查询
func (r *employeeRepository) queryEmployees(ctx context.Context, query string, args ...any) ([]*hr.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query employees: %v", hr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var employees []*hr.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan employee row: %v", hr.ErrStoreUnavailable, err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate employee rows: %v", hr.ErrStoreUnavailable, err)
	}

	return employees, nil
}
