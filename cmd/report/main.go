package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kapu/youtube-analytics-go/internal/report"
	"github.com/kapu/youtube-analytics-go/internal/storage"
	"github.com/kapu/youtube-analytics-go/internal/util"
)

func main() {
	input := flag.String("input", "youtube_analytics.csv", "path to the snapshot CSV file")
	output := flag.String("output", "youtube_analytics_report.html", "path to the HTML report")
	flag.Parse()

	logger, err := util.NewLogger(os.Getenv("LOG_LEVEL"), "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store := storage.NewSnapshotStore(*input, logger)
	rows, err := store.Read()
	if err != nil {
		logger.Error("Failed to read snapshot file", zap.Error(err))
		os.Exit(1)
	}
	if len(rows) == 0 {
		logger.Error("Snapshot file has no data; run the collector first",
			zap.String("input", *input))
		os.Exit(1)
	}

	generator := report.NewGenerator(logger)
	if err := generator.WriteFile(*output, rows); err != nil {
		logger.Error("Failed to generate report", zap.Error(err))
		os.Exit(1)
	}
}
