package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sglre6355/shaken/internal/bot"
	"github.com/sglre6355/shaken/internal/irc"
	_ "github.com/sglre6355/shaken/internal/modules/builtin"
	_ "github.com/sglre6355/shaken/internal/modules/timer"
	"github.com/sglre6355/shaken/internal/user"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=$(git rev-parse --short HEAD)" ./cmd/shaken
var version = "dev"

func main() {
	// Configure JSON logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	slog.Info("starting shaken", "version", version)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env file", "error", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := bot.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		slog.Warn("failed to parse log level, using info", "level", cfg.LogLevel, "error", err)
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, err := user.Open(ctx, cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open user store", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := users.Close(); err != nil {
			slog.Error("failed to close user store", "error", err)
		}
	}()

	conn, err := irc.Dial(ctx, cfg.Address)
	if err != nil {
		slog.Error("failed to connect", "address", cfg.Address, "error", err)
		os.Exit(1)
	}

	// Create and configure bot
	b := bot.NewBot(cfg, conn, users)
	b.SetVersion(version)
	b.LoadModules()

	// Start bot
	if err := b.Start(); err != nil {
		slog.Error("failed to start bot", "error", err)
		os.Exit(1)
	}
	if err := b.Register(); err != nil {
		slog.Error("failed to register", "error", err)
		os.Exit(1)
	}

	// Closing the connection unblocks the read loop.
	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := conn.Close(); err != nil {
			slog.Warn("failed to close connection", "error", err)
		}
	}()

	switch cfg.Dispatch {
	case bot.DispatchSync:
		b.Run(ctx)
	default:
		if err := b.RunWorkers(ctx); err != nil {
			slog.Error("module workers failed", "error", err)
		}
	}

	if err := b.Stop(); err != nil {
		slog.Error("failed to shutdown", "error", err)
	}

	slog.Info("completed bot shutdown")
}
