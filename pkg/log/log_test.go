package log

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/levenlabs/go-llog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLogger(t *testing.T) {
	ctx := context.Background()

	// Test Ctx without a logger in the context
	l1 := Ctx(ctx)
	require.NotNil(t, l1, "Ctx returned nil instead of default logger")
	assert.Equal(t, defaultLogger, l1, "Ctx should return defaultLogger")
	assert.Equal(t, Default(), l1)

	customLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	require.NotEqual(t, defaultLogger, customLogger, "Failed to create a distinct custom logger for testing")

	ctxWithLogger := With(ctx, customLogger)
	l2 := Ctx(ctxWithLogger)
	require.NotNil(t, l2, "Ctx returned nil, expected custom logger")
	assert.Equal(t, customLogger, l2, "Ctx should return customLogger")
}

func TestLevelFromLLog(t *testing.T) {
	tests := []struct {
		in   llog.Level
		want slog.Level
	}{
		{llog.DebugLevel, slog.LevelDebug},
		{llog.InfoLevel, slog.LevelInfo},
		{llog.WarnLevel, slog.LevelWarn},
		{llog.ErrorLevel, slog.LevelError},
	}
	for _, tt := range tests {
		got, err := LevelFromLLog(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSetDefaultLogLevel(t *testing.T) {
	defer SetDefaultLogLevel(slog.LevelInfo)

	SetDefaultLogLevel(slog.LevelError)
	assert.False(t, Default().Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, Default().Enabled(context.Background(), slog.LevelError))
}
