package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		expected slog.Level
	}{
		{name: "default log level (info)", logLevel: "", expected: slog.LevelInfo},
		{name: "debug log level", logLevel: "debug", expected: slog.LevelDebug},
		{name: "upper case warn", logLevel: "WARN", expected: slog.LevelWarn},
		{name: "error log level", logLevel: "error", expected: slog.LevelError},
		{name: "invalid log level defaults to info", logLevel: "invalid", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.logLevel))
		})
	}
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "", "info")

	logger.Debug("hidden")
	logger.Info("visible", slog.String("source", "react"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "react", entry["source"])
}

func TestNewLogger_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "text", "debug")

	logger.Debug("debugging", slog.Int("items", 3))

	assert.Contains(t, buf.String(), "msg=debugging")
	assert.Contains(t, buf.String(), "items=3")
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger(&buf, "", "info")

	runID := NewRunID()
	ctx := WithRunID(context.Background(), base, runID)

	assert.Equal(t, runID, RunIDFromContext(ctx))
	FromContext(ctx).Info("run started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, runID, entry["run_id"])
}

func TestFromContext_DefaultLogger(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
	assert.Empty(t, RunIDFromContext(context.Background()))
}
