package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hrwiki/backend/internal/domain/hr"
)

// documentRepository 固定文档与预置问题的 SQLite 仓储实现
type documentRepository struct {
	db *sql.DB
}

// NewDocumentRepository 创建文档仓储实例
func NewDocumentRepository(db *sql.DB) hr.DocumentRepository {
	// 确保表存在
	if err := initDocumentTables(db); err != nil {
		// 初始化失败时记录错误但不阻止创建
		fmt.Printf("failed to init document tables: %v\n", err)
	}
	return &documentRepository{db: db}
}

// initDocumentTables 初始化文档与预置问题表
func initDocumentTables(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS documents (
		category_key TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS suggested_questions (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		fields TEXT NOT NULL DEFAULT ''
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create document tables: %w", err)
	}

	return nil
}

// GetDocument 按类别键取固定文档
func (r *documentRepository) GetDocument(ctx context.Context, categoryKey string) (*hr.Document, error) {
	query := `SELECT category_key, title, content FROM documents WHERE category_key = ?`

	var doc hr.Document
	err := r.db.QueryRowContext(ctx, query, categoryKey).Scan(&doc.CategoryKey, &doc.Title, &doc.Content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hr.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("%w: get document %s: %v", hr.ErrStoreUnavailable, categoryKey, err)
	}
	return &doc, nil
}

// SaveDocument 保存固定文档，upsert 语义
func (r *documentRepository) SaveDocument(ctx context.Context, doc *hr.Document) error {
	query := `INSERT OR REPLACE INTO documents (category_key, title, content) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, doc.CategoryKey, doc.Title, doc.Content)
	if err != nil {
		return fmt.Errorf("%w: save document %s: %v", hr.ErrStoreUnavailable, doc.CategoryKey, err)
	}
	return nil
}

// ListSuggestedQuestions 列出全部预置问题，按问题文本排序保证确定性
func (r *documentRepository) ListSuggestedQuestions(ctx context.Context) ([]*hr.SuggestedQuestion, error) {
	query := `SELECT question, summary, fields FROM suggested_questions ORDER BY question`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list suggested questions: %v", hr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var questions []*hr.SuggestedQuestion
	for rows.Next() {
		var q hr.SuggestedQuestion
		if err := rows.Scan(&q.Question, &q.Summary, &q.Fields); err != nil {
			return nil, fmt.Errorf("%w: scan suggested question: %v", hr.ErrStoreUnavailable, err)
		}
		questions = append(questions, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate suggested questions: %v", hr.ErrStoreUnavailable, err)
	}

	return questions, nil
}

// SaveSuggestedQuestion 保存预置问题
func (r *documentRepository) SaveSuggestedQuestion(ctx context.Context, q *hr.SuggestedQuestion) error {
	// 已存在同名问题时复用其 ID，否则生成新的 UUID
	var existingID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM suggested_questions WHERE question = ?`, q.Question,
	).Scan(&existingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: lookup suggested question: %v", hr.ErrStoreUnavailable, err)
	}

	id := existingID.String
	if id == "" {
		id = uuid.New().String()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO suggested_questions (id, question, summary, fields) VALUES (?, ?, ?, ?)`,
		id, q.Question, q.Summary, q.Fields,
	)
	if err != nil {
		return fmt.Errorf("%w: save suggested question: %v", hr.ErrStoreUnavailable, err)
	}
	return nil
}
