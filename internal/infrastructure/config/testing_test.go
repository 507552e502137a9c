package config

import (
	"io"
	"log/slog"
)

// testLogger 测试专用的静默 logger
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
