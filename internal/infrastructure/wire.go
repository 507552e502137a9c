package infrastructure

import (
	"github.com/google/wire"

	"github.com/hrwiki/backend/internal/infrastructure/auth"
	"github.com/hrwiki/backend/internal/infrastructure/config"
	"github.com/hrwiki/backend/internal/infrastructure/llm"
	"github.com/hrwiki/backend/internal/infrastructure/storage"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	llm.ProviderSet,
	auth.ProviderSet,
)
