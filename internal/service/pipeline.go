package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/youtube-analytics-go/internal/domain"
	"github.com/kapu/youtube-analytics-go/internal/util"
)

// PipelineOptions configures one collection run.
type PipelineOptions struct {
	Concurrent    bool
	DaysToAnalyze int
	// RunTimeout caps the discovery phase; zero means no deadline. When the
	// deadline fires, discovery stops submitting work and the run continues
	// with whatever was collected.
	RunTimeout time.Duration
}

// Pipeline wires discovery, statistics fetching and aggregation into one
// run-to-completion collection pass.
type Pipeline struct {
	coordinator *DiscoveryCoordinator
	fetcher     *StatsFetcher
	channels    []domain.ChannelEntry
	opts        PipelineOptions
	logger      *zap.Logger
}

func NewPipeline(coordinator *DiscoveryCoordinator, fetcher *StatsFetcher, channels []domain.ChannelEntry, opts PipelineOptions, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		coordinator: coordinator,
		fetcher:     fetcher,
		channels:    channels,
		opts:        opts,
		logger:      logger,
	}
}

// Run executes one snapshot collection and returns one row per configured
// channel. Discovery and fetch failures degrade the numbers, never the row
// set.
func (p *Pipeline) Run(ctx context.Context) ([]domain.ChannelReportRow, error) {
	now := time.Now()
	cutoff := util.WindowCutoff(now, p.opts.DaysToAnalyze)
	date := util.SnapshotDate(now)

	p.logger.Info("Collection run starting",
		zap.Int("channels", len(p.channels)),
		zap.Int("windowDays", p.opts.DaysToAnalyze),
		zap.Time("cutoff", cutoff),
		zap.Bool("concurrent", p.opts.Concurrent))

	discoveryCtx := ctx
	if p.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		discoveryCtx, cancel = context.WithTimeout(ctx, p.opts.RunTimeout)
		defer cancel()
	}

	tasks := BuildDiscoveryTasks(p.channels, cutoff)

	var videos []domain.DiscoveredVideo
	var failures []TaskFailure
	if p.opts.Concurrent {
		videos, failures = p.coordinator.DiscoverAll(discoveryCtx, tasks)
	} else {
		videos, failures = p.coordinator.DiscoverSequential(discoveryCtx, tasks)
	}

	p.logger.Info("Discovery finished",
		zap.Int("tasks", len(tasks)),
		zap.Int("videos", len(videos)),
		zap.Int("failedTasks", len(failures)))

	// Fetching runs on the parent context: a discovery deadline still lets
	// the already-collected ids produce a degraded but valid snapshot.
	acc, err := p.fetcher.FetchAndAggregate(ctx, videos)
	if err != nil {
		return nil, err
	}

	rows := BuildChannelRows(p.channels, acc, date)

	for _, row := range rows {
		fields := []zap.Field{zap.String("channel", row.ChannelName)}
		for _, category := range domain.Categories() {
			totals := row.Totals[category]
			fields = append(fields,
				zap.Int(string(category)+"_count", totals.Count),
				zap.Uint64(string(category)+"_views", totals.Views))
		}
		p.logger.Info("Channel snapshot", fields...)
	}

	return rows, nil
}
