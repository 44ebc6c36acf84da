// Package logging builds the zap logger pillbox writes to a file; stdout and
// stderr belong to the TUI.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// New returns a production zap logger writing to path. When the file cannot
// be opened the logger degrades to a no-op rather than breaking the UI.
func New(path string) *zap.Logger {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{trimmed}
	cfg.ErrorOutputPaths = []string{trimmed}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
