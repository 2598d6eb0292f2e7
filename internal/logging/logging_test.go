package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"chatty", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(Config{Level: tt.level}, &bytes.Buffer{})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(NewLogger(Config{Level: "info", Format: FormatJSON}, &buf), "cli")
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"component":"cli"`)
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fertcalc.log")
	result := NewLoggerWithPath(Config{Level: "info", Output: OutputFile, File: path})
	t.Cleanup(func() { _ = result.Close() })

	require.True(t, result.UsingFile)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Msg("written")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}

func TestNewLoggerWithPath_Stderr(t *testing.T) {
	result := NewLoggerWithPath(Config{Level: "info", Output: OutputStderr})
	assert.False(t, result.UsingFile)
	assert.False(t, result.FallbackUsed)
	assert.NoError(t, result.Close())
}

func TestTraceID(t *testing.T) {
	id := NewTraceID()
	_, err := ulid.Parse(id)
	require.NoError(t, err)

	ctx := ContextWithTraceID(context.Background(), "trace-1")
	assert.Equal(t, "trace-1", GetOrGenerateTraceID(ctx))

	t.Setenv(EnvTraceID, "from-env")
	assert.Equal(t, "from-env", GetOrGenerateTraceID(context.Background()))
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())

	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "debug"}, &buf)
	ctx := logger.WithContext(ContextWithTraceID(context.Background(), "abc"))

	got := FromContext(ctx)
	got.Info().Msg("traced")
	assert.Contains(t, buf.String(), `"trace_id":"abc"`)
}
