package pipeline

import (
	"github.com/google/wire"

	"github.com/hrwiki/backend/internal/infrastructure/tokenizer"
)

// NewTiktokenEstimator 以 tiktoken 实现 TokenEstimator
func NewTiktokenEstimator() (TokenEstimator, error) {
	return tokenizer.GetTiktokenEstimator()
}

// ProviderSet pipeline 包的 ProviderSet
var ProviderSet = wire.NewSet(
	NewClassifier,
	NewRetriever,
	NewAccessFilter,
	NewShaper,
	NewTiktokenEstimator,
	NewService,
)
