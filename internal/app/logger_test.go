package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/aivoc/vocbuilder/internal/config"
)

func TestNewLogger_SetsDefault(t *testing.T) {
	cfg := config.LogConfig{Level: "info", Format: "json"}
	logger := NewLogger(cfg)

	def := slog.Default()
	// They should reference the same underlying handler.
	if def.Handler() != logger.Handler() {
		t.Error("NewLogger should set the returned logger as slog default")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		wantSlog slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.level, func(t *testing.T) {
			var buf bytes.Buffer

			logger := newLoggerTo(&buf, config.LogConfig{
				Level:  tt.level,
				Format: "text",
			})

			logger.Log(context.TODO(), tt.wantSlog, "should appear")
			if buf.Len() == 0 {
				t.Errorf("expected log output at level %v", tt.wantSlog)
			}

			buf.Reset()
			logger.Log(context.TODO(), tt.wantSlog-1, "should be suppressed")
			if buf.Len() != 0 {
				t.Errorf("level %v should suppress lower levels, got: %s",
					tt.wantSlog, buf.String())
			}
		})
	}
}

func TestNewLogger_TextAddSource_JSONNoSource(t *testing.T) {
	var textBuf, jsonBuf bytes.Buffer

	newLoggerTo(&textBuf, config.LogConfig{Level: "info", Format: "text"}).Info("hello")
	newLoggerTo(&jsonBuf, config.LogConfig{Level: "info", Format: "json"}).Info("hello")

	if !strings.Contains(textBuf.String(), "source=") {
		t.Error("text format should include source")
	}

	var m map[string]any
	if err := json.Unmarshal(jsonBuf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := m["source"]; ok {
		t.Error("json format should not include source")
	}
}
