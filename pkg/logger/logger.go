// Package logger builds the zap.Logger shared by every component of the
// navigation core.
package logger

import "go.uber.org/zap"

// New builds a production zap.Logger: JSON encoding, info level, stack
// traces on error, as used by cmd/navcore unless -dev is given.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = false
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}

// NewDevelopment builds a human-readable, debug-level logger for local
// runs and tests.
func NewDevelopment() (*zap.Logger, error) {
	return zap.NewDevelopment()
}
