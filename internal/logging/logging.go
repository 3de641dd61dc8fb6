// Package logging builds the zap logger shared by the CLI and the engine.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger. Debug mode switches to the console encoder with
// human-readable timestamps; otherwise structured JSON at info level.
func New(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
