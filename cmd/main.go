package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	app "github.com/okian/rosterscan/internal/app"
	"github.com/okian/rosterscan/internal/config"
	"github.com/okian/rosterscan/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(cfg, app.WithLogger(log))
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error(ctx, "closing service failed", logger.Error(err))
		}
	}()

	summary, err := svc.Run(ctx)
	if err != nil {
		log.Error(ctx, "scan run failed", logger.Error(err))
		return 1
	}

	for _, cat := range summary.Categories {
		log.Info(ctx, "category scanned",
			logger.String("metric", string(cat.Metric)),
			logger.Int("frames", cat.Frames),
			logger.Int("observations", cat.Observations),
		)
	}
	log.Info(ctx, "roster ready",
		logger.String("runID", summary.RunID),
		logger.Int("entities", summary.Entities),
		logger.Int("mismatches", summary.Mismatches),
		logger.String("csv", summary.CSVPath),
		logger.String("html", summary.HTMLPath),
	)
	return 0
}
