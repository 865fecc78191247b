package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kapu/youtube-analytics-go/internal/app"
	"github.com/kapu/youtube-analytics-go/internal/config"
	"github.com/kapu/youtube-analytics-go/internal/service"
	"github.com/kapu/youtube-analytics-go/internal/storage"
	"github.com/kapu/youtube-analytics-go/internal/util"
)

func main() {
	envFile := flag.String("env", ".env", "path to env file with API key and channel map")
	output := flag.String("output", "", "path to the detail CSV (defaults per mode)")
	all := flag.Bool("all", false, "list every video in the window instead of the top video per playlist")
	flag.Parse()

	path := *output
	if path == "" {
		if *all {
			path = "all_videos_report.csv"
		} else {
			path = "top_videos_report.csv"
		}
	}

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

	ctx := context.Background()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble services", zap.Error(err))
		os.Exit(1)
	}

	rows, err := container.VideoReport.CollectDetails(ctx, cfg.Channels,
		cfg.Collector.DaysToAnalyze, cfg.Collector.Mode == config.ModeConcurrent)
	if err != nil {
		logger.Error("Detail collection failed", zap.Error(err))
		os.Exit(1)
	}

	if !*all {
		rows = service.TopPerPlaylist(rows)
	}

	if err := storage.WriteVideoDetails(path, rows, logger); err != nil {
		logger.Error("Failed to write detail report", zap.Error(err))
		os.Exit(1)
	}
}
