package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/youtube-analytics-go/internal/constants"
	"github.com/kapu/youtube-analytics-go/internal/domain"
	"github.com/kapu/youtube-analytics-go/internal/util"
)

// VideoReportService produces per-video detail reports: either every video
// in the window, or the most-viewed video per (channel, category).
type VideoReportService struct {
	coordinator *DiscoveryCoordinator
	stats       VideoStatsLister
	logger      *zap.Logger
}

func NewVideoReportService(coordinator *DiscoveryCoordinator, stats VideoStatsLister, logger *zap.Logger) *VideoReportService {
	return &VideoReportService{
		coordinator: coordinator,
		stats:       stats,
		logger:      logger,
	}
}

// CollectDetails discovers all in-window videos and resolves their full
// statistics. Batch failures drop only that batch's videos, same as the
// aggregation path.
func (vr *VideoReportService) CollectDetails(ctx context.Context, channels []domain.ChannelEntry, days int, concurrent bool) ([]domain.VideoDetailRow, error) {
	now := time.Now()
	cutoff := util.WindowCutoff(now, days)
	date := util.SnapshotDate(now)

	tasks := BuildDiscoveryTasks(channels, cutoff)

	var videos []domain.DiscoveredVideo
	var failures []TaskFailure
	if concurrent {
		videos, failures = vr.coordinator.DiscoverAll(ctx, tasks)
	} else {
		videos, failures = vr.coordinator.DiscoverSequential(ctx, tasks)
	}

	if len(failures) > 0 {
		vr.logger.Warn("Some playlists failed during detail discovery",
			zap.Int("failures", len(failures)))
	}

	tags := make(map[string]domain.AggregateKey, len(videos))
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.VideoID)
		if _, exists := tags[v.VideoID]; !exists {
			tags[v.VideoID] = domain.AggregateKey{Channel: v.Channel, Category: v.Category}
		}
	}

	var rows []domain.VideoDetailRow
	batchSize := constants.YouTubeAPI.StatsBatchSize
	for i := 0; i < len(ids); i += batchSize {
		end := util.Min(i+batchSize, len(ids))

		stats, err := vr.stats.VideoStatsBatch(ctx, ids[i:end])
		if err != nil {
			vr.logger.Warn("Detail batch failed, skipping its videos",
				zap.Int("size", end-i),
				zap.Error(err))
			continue
		}

		for _, vs := range stats {
			key, ok := tags[vs.VideoID]
			if !ok {
				continue
			}
			rows = append(rows, domain.VideoDetailRow{
				Date:        date,
				ChannelName: key.Channel,
				Category:    key.Category,
				VideoID:     vs.VideoID,
				Title:       vs.Title,
				ViewCount:   vs.ViewCount,
				LikeCount:   vs.LikeCount,
				PublishedAt: vs.PublishedAt,
			})
		}
	}

	sortDetailRows(rows)
	return rows, nil
}

// TopPerPlaylist keeps only the most-viewed video of each (channel,
// category). Keys with no videos simply have no row.
func TopPerPlaylist(rows []domain.VideoDetailRow) []domain.VideoDetailRow {
	best := make(map[domain.AggregateKey]domain.VideoDetailRow)
	for _, row := range rows {
		key := domain.AggregateKey{Channel: row.ChannelName, Category: row.Category}
		if current, ok := best[key]; !ok || row.ViewCount > current.ViewCount {
			best[key] = row
		}
	}

	top := make([]domain.VideoDetailRow, 0, len(best))
	for _, row := range best {
		top = append(top, row)
	}
	sortDetailRows(top)
	return top
}

func sortDetailRows(rows []domain.VideoDetailRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ChannelName != rows[j].ChannelName {
			return rows[i].ChannelName < rows[j].ChannelName
		}
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].ViewCount > rows[j].ViewCount
	})
}
