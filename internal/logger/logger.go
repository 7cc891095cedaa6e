// Package logger создаёт zap-логгер приложения.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New создаёт production-логгер с заданным уровнем.
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
