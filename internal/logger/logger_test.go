package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zap.AtomicLevel
	}{
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"TRACE", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"info", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{" warning ", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"error", zap.NewAtomicLevelAt(zap.ErrorLevel)},
		{"bogus", zap.NewAtomicLevelAt(zap.InfoLevel)},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want.Level() {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want.Level())
		}
	}
}
