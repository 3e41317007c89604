package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelDebug.SlogLevel())
	assert.Equal(t, slog.LevelError, LevelError.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogLevel(999).SlogLevel())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{input: "debug", expected: LevelDebug},
		{input: "INFO", expected: LevelInfo},
		{input: "", expected: LevelInfo},
		{input: "warning", expected: LevelWarn},
		{input: " error ", expected: LevelError},
		{input: "verbose", expected: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf, FormatText)

	Debug("Runner", "hidden %d", 1)
	Info("Runner", "running %d cases", 3)
	Error("History", errors.New("disk full"), "failed to record")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "running 3 cases")
	assert.Contains(t, out, "subsystem=Runner")
	assert.Contains(t, out, `error="disk full"`)
	assert.True(t, Enabled(LevelWarn))
	assert.False(t, Enabled(LevelDebug))
}

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(LevelDebug, &buf, FormatJSON)
	require.NotNil(t, logger)
	assert.Same(t, logger, Logger())

	Warn("Dataset", "no parameterizations in %s", "data.yaml")
	assert.Contains(t, buf.String(), `"subsystem":"Dataset"`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}
