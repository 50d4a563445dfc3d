// Package logger builds the zap logger handed to every component.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger embeds *zap.Logger so components log with the zap API directly.
type Logger struct {
	*zap.Logger
}

// NewLogger creates a JSON logger writing info and above to stdout.
func NewLogger() (*Logger, error) {
	return NewLoggerWithLevel("info")
}

// NewLoggerWithLevel creates a JSON stdout logger at level: debug, info, warn or error,
// in any case. An empty level means info.
func NewLoggerWithLevel(level string) (*Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{Logger: zapLogger}, nil
}

// New wraps an existing core, e.g. an observer core in tests.
func New(core zapcore.Core) *Logger {
	return &Logger{Logger: zap.New(core)}
}

func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Named returns a child logger for a component. A nil receiver yields a no-op logger so
// optional loggers can be passed around without checks.
func (l *Logger) Named(name string) *Logger {
	if l == nil || l.Logger == nil {
		return NewNop()
	}

	return &Logger{Logger: l.Logger.Named(name)}
}

func (l *Logger) Sync() error {
	if l == nil || l.Logger == nil {
		return nil
	}

	return l.Logger.Sync()
}
