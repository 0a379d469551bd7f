package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matt-dz/savorystories/internal/config"
	"github.com/matt-dz/savorystories/internal/log"
	"github.com/matt-dz/savorystories/internal/setup"
	"github.com/matt-dz/savorystories/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	const setupTime = 30 * time.Second
	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	conf, err := config.LoadConfig()
	if err != nil {
		log.New(log.FormatJSON, nil).Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := setup.Logger(conf)

	env, driver, err := setup.Env(setupCtx, conf, logger)
	if err != nil {
		logger.Error("failed to setup environment", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := driver.Close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	if err := web.Start(ctx, env); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}
