package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		r := New(Config{Level: tt.level})
		assert.Equal(t, tt.want, r.Logger.GetLevel(), "level %q", tt.level)
		assert.NoError(t, r.Close())
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	r := New(Config{Level: "info", Format: "json", File: path})

	assert.True(t, r.UsingFile)
	assert.False(t, r.FallbackUsed)
	assert.Equal(t, path, r.FilePath)

	r.Logger.Info().Str("component", "test").Msg("hello")
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), "hello")
}

func TestNew_FileOpenFailureFallsBack(t *testing.T) {
	r := New(Config{File: filepath.Join(t.TempDir(), "missing", "nested", "app.log")})

	assert.True(t, r.FallbackUsed)
	assert.False(t, r.UsingFile)
	assert.NoError(t, r.Close(), "close is a no-op without a file")
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	logger := ComponentLogger(base, "engine")
	logger.Info().Msg("ready")

	assert.Contains(t, buf.String(), `"component":"engine"`)
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, FromContext(nil).GetLevel())
	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("attached")
	assert.Contains(t, buf.String(), "attached")
}
