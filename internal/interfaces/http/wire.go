package http

import (
	"github.com/google/wire"

	"github.com/hrwiki/backend/internal/interfaces/http/handler"
)

// ProviderSet http 包的 ProviderSet
var ProviderSet = wire.NewSet(
	handler.ProviderSet,
	NewServer,
)
