package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
	"github.com/smartworkshop/workshopcost/pkg/log"
	"github.com/smartworkshop/workshopcost/pkg/server"
	"github.com/smartworkshop/workshopcost/pkg/storage"
)

func main() {
	// init packages
	s := storage.Configured()

	// init server
	srv := server.Configured(s)

	// parse flags
	lflag.Configure()

	// lflag automatically sets llog's level, but we need to set the slog level
	level, err := log.LevelFromLLog(llog.GetLevel())
	if err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	log.SetDefaultLogLevel(level)
	slog.Debug("logger configured", slog.String("level", level.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = log.With(ctx, logger)

	// If initialization inside lflag.Do failed, we wouldn't be here (panic).
	defer func() {
		if err := s.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
		}
	}()

	// Run will block until context is canceled or error happens
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
