// Package main is the entry point for the glround demo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/glround/glround/internal/app"
	"github.com/glround/glround/internal/config"
	"github.com/glround/glround/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	// Initialize logger
	opts := logger.DefaultOptions(cfg.Logging.Level, cfg.Logging.LogFile)
	opts.MaxSizeMB = cfg.Logging.MaxSizeMB
	opts.MaxBackups = cfg.Logging.MaxBackups
	opts.MaxAgeDays = cfg.Logging.MaxAgeDays
	opts.Compress = cfg.Logging.Compress
	if err := logger.InitWithOptions(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== glround ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to initialize", zap.Error(err))
		return -1
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		logger.Error("render loop error", zap.Error(err))
		return 1
	}

	logger.Info("closed normally", zap.Uint64("frames", a.Frames()))
	return 0
}
