package application

import (
	"github.com/google/wire"

	"github.com/hrwiki/backend/internal/application/pipeline"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	pipeline.ProviderSet,
)
