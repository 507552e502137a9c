package handler

import "github.com/google/wire"

// ProviderSet handler 包的 ProviderSet
var ProviderSet = wire.NewSet(
	NewAuthHandler,
	NewChatHandler,
	NewChatWSHandler,
	NewEmployeeHandler,
	NewQuestionsHandler,
)
