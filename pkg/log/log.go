package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/levenlabs/go-llog"
)

var (
	defaultLogLevel slog.LevelVar
	defaultLogger   = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     &defaultLogLevel,
	}))
)

func init() {
	defaultLogLevel.Set(slog.LevelInfo)
}

type contextKey struct{}

var loggerKey = contextKey{}

// Ctx returns the logger from the context. If no logger is found, it returns the default logger.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a new context with the given logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Default returns the process-wide logger.
func Default() *slog.Logger {
	return defaultLogger
}

func SetDefaultLogLevel(level slog.Level) {
	defaultLogLevel.Set(level)
}

// LevelFromLLog converts the level lflag configured on llog into a slog level.
func LevelFromLLog(l llog.Level) (slog.Level, error) {
	switch l {
	case llog.DebugLevel:
		return slog.LevelDebug, nil
	case llog.InfoLevel:
		return slog.LevelInfo, nil
	case llog.WarnLevel:
		return slog.LevelWarn, nil
	case llog.ErrorLevel:
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", l.String())
	}
}
