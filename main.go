package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hrpulse/internal"
	"hrpulse/internal/config"
	"hrpulse/internal/container"
	"hrpulse/ui"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err == nil {
		internal.DefaultLogger.Debug("Loaded .env")
	}

	cfg, err := config.Load()
	if err != nil {
		internal.DefaultLogger.Error("Configuration error: %v", err)
		os.Exit(1)
	}
	logger := internal.NewLogger(cfg.LogLevel(), os.Stderr, cfg.Logging.JSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Startup failed: %v", err)
		os.Exit(1)
	}
	defer c.Close()

	if err := ui.Run(ctx, c); err != nil {
		logger.Error("Server stopped: %v", err)
		c.Close()
		os.Exit(1)
	}
}
