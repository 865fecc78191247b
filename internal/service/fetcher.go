package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kapu/youtube-analytics-go/internal/constants"
	"github.com/kapu/youtube-analytics-go/internal/domain"
	"github.com/kapu/youtube-analytics-go/internal/util"
)

// StatsFetcher turns discovered videos into per-(channel, category) totals.
// Fetching is sequential: batch calls already amortize the request count,
// and a single writer keeps the accumulator free of races.
type StatsFetcher struct {
	api    VideoStatsLister
	logger *zap.Logger
}

func NewStatsFetcher(api VideoStatsLister, logger *zap.Logger) *StatsFetcher {
	return &StatsFetcher{api: api, logger: logger}
}

// FetchAndAggregate partitions the discovered ids into consecutive batches
// of at most 50, issues one statistics call per batch, and folds the
// returned view counts into the accumulator.
//
// A video only counts once its statistics actually arrive; ids the platform
// omits from a response contribute nothing. A failed batch is skipped
// whole: its videos are dropped from every key and the run continues.
func (sf *StatsFetcher) FetchAndAggregate(ctx context.Context, videos []domain.DiscoveredVideo) (domain.Accumulator, error) {
	acc := make(domain.Accumulator)
	if len(videos) == 0 {
		return acc, nil
	}

	// Index each id's origin tag up front so every returned item resolves
	// in constant time.
	tags := make(map[string]domain.AggregateKey, len(videos))
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.VideoID)
		if _, exists := tags[v.VideoID]; !exists {
			tags[v.VideoID] = domain.AggregateKey{Channel: v.Channel, Category: v.Category}
		}
	}

	batchSize := constants.YouTubeAPI.StatsBatchSize
	batches := 0
	failed := 0

	for i := 0; i < len(ids); i += batchSize {
		end := util.Min(i+batchSize, len(ids))
		batch := ids[i:end]
		batches++

		stats, err := sf.api.VideoStatsBatch(ctx, batch)
		if err != nil {
			failed++
			sf.logger.Warn("Statistics batch failed, skipping its videos",
				zap.Int("batch", batches),
				zap.Int("size", len(batch)),
				zap.Error(err))
			continue
		}

		for _, vs := range stats {
			key, ok := tags[vs.VideoID]
			if !ok {
				// The platform returned an id nothing asked about.
				sf.logger.Warn("Untagged video in statistics response",
					zap.String("videoId", vs.VideoID))
				continue
			}
			acc.Add(key, vs.ViewCount)
		}
	}

	sf.logger.Info("Statistics aggregation finished",
		zap.Int("videos", len(ids)),
		zap.Int("batches", batches),
		zap.Int("failedBatches", failed),
		zap.Int("keys", len(acc)))

	return acc, nil
}
