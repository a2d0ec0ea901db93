package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*LeadMeshLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Output = buf
	cfg.AddSource = false
	return NewLogger(cfg), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestLeadMeshLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)

	l.Debug("not seen")
	l.Info("not seen")
	l.Warn("seen")
	l.Error("also seen")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "seen", entries[0]["msg"])
	assert.Equal(t, "also seen", entries[1]["msg"])
}

func TestLeadMeshLogger_ContextualAttrs(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	l.WithComponent("session").
		WithSession("sess-1", "wf-9").
		WithContext("tenant", "acme").
		Info("contact collected")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "session", entries[0]["component"])
	assert.Equal(t, "sess-1", entries[0]["session_id"])
	assert.Equal(t, "wf-9", entries[0]["workflow_id"])
	assert.Equal(t, "acme", entries[0]["tenant"])
}

func TestLeadMeshLogger_WithContextDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	_ = l.WithContext("tenant", "acme")
	l.Info("plain")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "tenant")
}

func TestLeadMeshLogger_LogAgentCall(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	l.LogAgentCall("contact", "upsert", 12*time.Millisecond, false, "lookup failed")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "Agent call failed", entries[0]["msg"])
	assert.Equal(t, "contact", entries[0]["agent"])
	assert.Equal(t, "lookup failed", entries[0]["error"])
}

func TestLeadMeshLogger_ErrorWithStack(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	l.ErrorWithStack(errors.New("boom"), "workflow step crashed")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0]["error"])
	assert.NotEmpty(t, entries[0]["stack_trace"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"", LogLevelInfo},
		{"trace", LogLevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "input %q", tt.in)
	}
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "INFO", LogLevelInfo.String())
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
}

func TestNoOpLoggerImplementsLogger(t *testing.T) {
	var _ Logger = NoOpLogger{}
	var _ Logger = (*SlogAdapter)(nil)
	var _ Logger = (*LeadMeshLogger)(nil)
}
