package logger

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestLevels() {
	tests := []struct {
		level   string
		enabled zapcore.Level
		blocked zapcore.Level
	}{
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"INFO", zapcore.InfoLevel, zapcore.DebugLevel},
		{" warn ", zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel, zapcore.WarnLevel},
		{"", zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		suite.Run(tt.level, func() {
			log, err := NewLoggerWithLevel(tt.level)
			suite.Require().NoError(err)
			suite.True(log.Core().Enabled(tt.enabled))
			suite.False(log.Core().Enabled(tt.blocked))
		})
	}
}

func (suite *LoggerTestSuite) TestInvalidLevel() {
	log, err := NewLoggerWithLevel("loud")
	suite.Error(err)
	suite.Contains(err.Error(), `"loud"`)
	suite.Nil(log)
}

func (suite *LoggerTestSuite) TestNewLoggerDefaultsToInfo() {
	log, err := NewLogger()
	suite.Require().NoError(err)
	suite.False(log.Core().Enabled(zapcore.DebugLevel))
	suite.True(log.Core().Enabled(zapcore.InfoLevel))
}

func (suite *LoggerTestSuite) TestNamedChildCarriesComponent() {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(core)

	log.Named("orchestrator").Named("capm").Info("Loaded strategy", zap.String("kind", "capm_value"))

	entries := logs.All()
	suite.Require().Len(entries, 1)
	suite.Equal("orchestrator.capm", entries[0].LoggerName)
	suite.Equal("Loaded strategy", entries[0].Message)
	suite.Equal("capm_value", entries[0].ContextMap()["kind"])
}

func (suite *LoggerTestSuite) TestNilLoggerIsSafe() {
	var log *Logger

	named := log.Named("bus")
	suite.NotNil(named)
	named.Error("dropped")
	suite.NoError(log.Sync())
	suite.NoError((&Logger{}).Sync())
}

func (suite *LoggerTestSuite) TestNop() {
	log := NewNop()
	suite.False(log.Core().Enabled(zapcore.ErrorLevel))
	suite.NoError(log.Sync())
}
