package app

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kapu/youtube-analytics-go/internal/config"
	"github.com/kapu/youtube-analytics-go/internal/constants"
	"github.com/kapu/youtube-analytics-go/internal/service"
)

// Container holds the assembled services for one run.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Quota       *service.QuotaTracker
	Client      *service.YouTubeClient
	Coordinator *service.DiscoveryCoordinator
	Fetcher     *service.StatsFetcher
	Pipeline    *service.Pipeline
	VideoReport *service.VideoReportService
}

// Build wires the collection services together. The rate limiter and quota
// tracker are shared by every client the run creates; each discovery task
// still gets its own client handle from the factory.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	limiter := rate.NewLimiter(rate.Limit(cfg.YouTube.RateLimitRPS), constants.RateLimitConfig.Burst)
	quota := service.NewQuotaTracker(logger)

	client, err := service.NewYouTubeClient(ctx, cfg.YouTube.APIKey, limiter, quota, logger)
	if err != nil {
		return nil, err
	}

	factory := service.NewClientFactory(cfg.YouTube.APIKey, limiter, quota, logger)
	coordinator := service.NewDiscoveryCoordinator(factory, cfg.Collector.MaxWorkers, logger)
	fetcher := service.NewStatsFetcher(client, logger)

	pipeline := service.NewPipeline(coordinator, fetcher, cfg.Channels, service.PipelineOptions{
		Concurrent:    cfg.Collector.Mode == config.ModeConcurrent,
		DaysToAnalyze: cfg.Collector.DaysToAnalyze,
		RunTimeout:    cfg.Collector.RunTimeout,
	}, logger)

	videoReport := service.NewVideoReportService(coordinator, client, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Quota:       quota,
		Client:      client,
		Coordinator: coordinator,
		Fetcher:     fetcher,
		Pipeline:    pipeline,
		VideoReport: videoReport,
	}, nil
}
