package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hrwiki/backend/internal/domain/chat"
	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/log"
)

// TokenEstimator 提示词 token 估算
type TokenEstimator interface {
	CountTokens(text string) int
}

// Request 一次流水线请求
type Request struct {
	Query   string
	Role    hr.Role
	History []chat.Message
}

// Result 流水线产出：可直接投喂模型的载荷与观测信息
type Result struct {
	RequestID      string
	Classification hr.Classification
	Payload        chat.PromptPayload
	Metadata       hr.RetrievalMetadata
	PromptTokens   int
}

// Service 检索流水线编排：分类 -> 检索 -> 脱敏 -> 组装
// 各阶段无共享可变状态，天然支持并发请求
type Service struct {
	classifier *Classifier
	retriever  *Retriever
	filter     *AccessFilter
	shaper     *Shaper
	estimator  TokenEstimator
	logger     *slog.Logger
}

// NewService 创建流水线服务
func NewService(classifier *Classifier, retriever *Retriever, filter *AccessFilter, shaper *Shaper, estimator TokenEstimator) *Service {
	return &Service{
		classifier: classifier,
		retriever:  retriever,
		filter:     filter,
		shaper:     shaper,
		estimator:  estimator,
		logger:     log.NewModuleLogger("pipeline", "service"),
	}
}

// Prepare 执行完整流水线，产出模型提示载荷
func (s *Service) Prepare(ctx context.Context, req Request) (*Result, error) {
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("invalid requester role: %s", req.Role)
	}
	requestID := uuid.New().String()

	classification := s.classifier.Classify(req.Query)
	s.logger.Info("query classified",
		"request_id", requestID,
		"topics", fmt.Sprintf("%v", classification.Topics),
		"employee_id", classification.EmployeeID,
		"visa_type", classification.VisaType)

	retrieved, err := s.retriever.Retrieve(ctx, classification, req.History)
	if err != nil {
		return nil, fmt.Errorf("retrieval stage failed: %w", err)
	}

	filtered := s.filter.Filter(retrieved, req.Role)
	payload := s.shaper.BuildPrompt(filtered, req.History, req.Query, req.Role)

	tokens := 0
	if s.estimator != nil {
		for _, m := range payload.Messages {
			tokens += s.estimator.CountTokens(m.Content)
		}
	}

	s.logger.Info("prompt prepared",
		"request_id", requestID,
		"role", string(req.Role),
		"fragments", filtered.Metadata.FragmentCount,
		"truncated", filtered.Metadata.Truncated,
		"prompt_tokens", tokens)

	return &Result{
		RequestID:      requestID,
		Classification: classification,
		Payload:        payload,
		Metadata:       filtered.Metadata,
		PromptTokens:   tokens,
	}, nil
}
