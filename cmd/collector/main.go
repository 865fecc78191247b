package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kapu/youtube-analytics-go/internal/app"
	"github.com/kapu/youtube-analytics-go/internal/config"
	"github.com/kapu/youtube-analytics-go/internal/storage"
	"github.com/kapu/youtube-analytics-go/internal/util"
)

func main() {
	envFile := flag.String("env", ".env", "path to env file with API key and channel map")
	output := flag.String("output", "youtube_analytics.csv", "path to the snapshot CSV file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	for _, entry := range cfg.SkippedEntries {
		logger.Warn("Skipping invalid channel map entry", zap.String("entry", entry))
	}

	ctx := context.Background()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble services", zap.Error(err))
		os.Exit(1)
	}

	rows, err := container.Pipeline.Run(ctx)
	if err != nil {
		logger.Error("Collection run failed", zap.Error(err))
		os.Exit(1)
	}

	store := storage.NewSnapshotStore(*output, logger)
	if err := store.Append(rows); err != nil {
		logger.Error("Failed to persist snapshot", zap.Error(err))
		os.Exit(1)
	}

	used, remaining := container.Quota.Status()
	logger.Info("Run complete",
		zap.String("output", *output),
		zap.Int("channels", len(rows)),
		zap.Int("quotaUsed", used),
		zap.Int("quotaRemaining", remaining))
}
