package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		json  bool
		debug bool
		level zapcore.Level
	}{
		{name: "console info", level: zapcore.InfoLevel},
		{name: "console debug", debug: true, level: zapcore.DebugLevel},
		{name: "json info", json: true, level: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(tt.json, tt.debug)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !logger.Core().Enabled(tt.level) {
				t.Fatalf("expected %s to be enabled", tt.level)
			}

			if tt.level == zapcore.InfoLevel && logger.Core().Enabled(zapcore.DebugLevel) {
				t.Fatal("expected debug to be disabled")
			}
		})
	}
}
