package service

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/youtube-analytics-go/internal/constants"
	"github.com/kapu/youtube-analytics-go/internal/domain"
	"github.com/kapu/youtube-analytics-go/internal/util"
)

// DiscoveryTask is one unit of discovery work: a single (channel, category)
// playlist walked against a cutoff.
type DiscoveryTask struct {
	Playlist domain.CategoryPlaylist
	Cutoff   time.Time
}

// TaskFailure records one discovery task that produced no videos because of
// an error. Failures never abort sibling tasks.
type TaskFailure struct {
	Channel    string
	Category   domain.Category
	PlaylistID string
	Err        error
}

// taskOutcome is the tagged result of one task: either Videos or Err is
// meaningful, never both.
type taskOutcome struct {
	task   DiscoveryTask
	videos []domain.DiscoveredVideo
	err    error
}

// DiscoveryCoordinator fans discovery tasks out to a bounded worker pool and
// merges the per-task outcomes. Every task is reported exactly once, either
// in the merged video list or in the failure report.
type DiscoveryCoordinator struct {
	factory    ClientFactory
	maxWorkers int
	logger     *zap.Logger
}

func NewDiscoveryCoordinator(factory ClientFactory, maxWorkers int, logger *zap.Logger) *DiscoveryCoordinator {
	if maxWorkers <= 0 {
		maxWorkers = constants.DiscoveryConfig.DefaultMaxWorkers
	}
	return &DiscoveryCoordinator{
		factory:    factory,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// DiscoverAll runs every task on a bounded pool. Each task owns its own API
// client handle; nothing mutable is shared across tasks except the outcome
// slots. Merged order follows completion, which downstream aggregation does
// not depend on.
//
// When ctx expires mid-run, remaining tasks are recorded as failures and
// whatever completed is returned as a degraded but valid result.
func (dc *DiscoveryCoordinator) DiscoverAll(ctx context.Context, tasks []DiscoveryTask) ([]domain.DiscoveredVideo, []TaskFailure) {
	if len(tasks) == 0 {
		return nil, nil
	}

	poolSize := util.Min(dc.maxWorkers, len(tasks)+constants.DiscoveryConfig.PoolSlack)
	p := pool.New().WithMaxGoroutines(poolSize)

	dc.logger.Info("Starting concurrent discovery",
		zap.Int("tasks", len(tasks)),
		zap.Int("workers", poolSize))

	outcomes := make([]*taskOutcome, len(tasks))
	outcomesMu := sync.Mutex{}

	for idx, task := range tasks {
		idx, task := idx, task
		p.Go(func() {
			outcome := dc.runTask(ctx, task)
			outcomesMu.Lock()
			outcomes[idx] = outcome
			outcomesMu.Unlock()
		})
	}

	p.Wait()

	return dc.merge(outcomes)
}

// DiscoverSequential runs every task one at a time on a single client,
// matching the concurrent mode's isolation: a failed task is recorded and
// the loop moves on.
func (dc *DiscoveryCoordinator) DiscoverSequential(ctx context.Context, tasks []DiscoveryTask) ([]domain.DiscoveredVideo, []TaskFailure) {
	if len(tasks) == 0 {
		return nil, nil
	}

	client, err := dc.factory(ctx)
	if err != nil {
		failures := make([]TaskFailure, 0, len(tasks))
		for _, task := range tasks {
			failures = append(failures, taskFailure(task, err))
		}
		return nil, failures
	}

	collector := NewVideoCollector(client, dc.logger)
	outcomes := make([]*taskOutcome, 0, len(tasks))
	for _, task := range tasks {
		outcomes = append(outcomes, dc.collectTask(ctx, collector, task))
	}

	return dc.merge(outcomes)
}

func (dc *DiscoveryCoordinator) runTask(ctx context.Context, task DiscoveryTask) *taskOutcome {
	if ctx.Err() != nil {
		return &taskOutcome{task: task, err: ctx.Err()}
	}

	client, err := dc.factory(ctx)
	if err != nil {
		return &taskOutcome{task: task, err: err}
	}

	collector := NewVideoCollector(client, dc.logger)
	return dc.collectTask(ctx, collector, task)
}

func (dc *DiscoveryCoordinator) collectTask(ctx context.Context, collector *VideoCollector, task DiscoveryTask) *taskOutcome {
	if ctx.Err() != nil {
		return &taskOutcome{task: task, err: ctx.Err()}
	}

	videoIDs, err := collector.Collect(ctx, task.Playlist.PlaylistID, task.Cutoff)
	if err != nil {
		return &taskOutcome{task: task, err: err}
	}

	videos := make([]domain.DiscoveredVideo, 0, len(videoIDs))
	for _, id := range videoIDs {
		videos = append(videos, domain.DiscoveredVideo{
			VideoID:  id,
			Channel:  task.Playlist.Channel.Name,
			Category: task.Playlist.Category,
		})
	}

	return &taskOutcome{task: task, videos: videos}
}

func (dc *DiscoveryCoordinator) merge(outcomes []*taskOutcome) ([]domain.DiscoveredVideo, []TaskFailure) {
	var videos []domain.DiscoveredVideo
	var failures []TaskFailure

	for _, outcome := range outcomes {
		if outcome == nil {
			continue
		}
		if outcome.err != nil {
			dc.logger.Warn("Discovery task failed",
				zap.String("channel", outcome.task.Playlist.Channel.Name),
				zap.String("category", string(outcome.task.Playlist.Category)),
				zap.String("playlist", outcome.task.Playlist.PlaylistID),
				zap.Error(outcome.err))
			failures = append(failures, taskFailure(outcome.task, outcome.err))
			continue
		}

		dc.logger.Info("Discovery task completed",
			zap.String("channel", outcome.task.Playlist.Channel.Name),
			zap.String("category", string(outcome.task.Playlist.Category)),
			zap.Int("videos", len(outcome.videos)))
		videos = append(videos, outcome.videos...)
	}

	return videos, failures
}

func taskFailure(task DiscoveryTask, err error) TaskFailure {
	return TaskFailure{
		Channel:    task.Playlist.Channel.Name,
		Category:   task.Playlist.Category,
		PlaylistID: task.Playlist.PlaylistID,
		Err:        err,
	}
}

// BuildDiscoveryTasks expands the channel registry into one task per
// (channel, category) playlist.
func BuildDiscoveryTasks(channels []domain.ChannelEntry, cutoff time.Time) []DiscoveryTask {
	tasks := make([]DiscoveryTask, 0, len(channels)*len(domain.Categories()))
	for _, channel := range channels {
		for _, playlist := range domain.ResolvePlaylists(channel) {
			tasks = append(tasks, DiscoveryTask{Playlist: playlist, Cutoff: cutoff})
		}
	}
	return tasks
}
