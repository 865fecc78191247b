package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/kapu/youtube-analytics-go/internal/constants"
	"github.com/kapu/youtube-analytics-go/internal/domain"
	apperrors "github.com/kapu/youtube-analytics-go/pkg/errors"
)

// PlaylistPage is one page of playlist items together with the continuation
// token for the next page. An empty token means the final page.
type PlaylistPage struct {
	Items         []PlaylistItem
	NextPageToken string
}

type PlaylistItem struct {
	VideoID     string
	PublishedAt time.Time
}

// PlaylistLister lists playlist item pages.
type PlaylistLister interface {
	PlaylistItemsPage(ctx context.Context, playlistID, pageToken string) (*PlaylistPage, error)
}

// VideoStatsLister fetches statistics for a batch of video ids. Ids the
// platform does not know are silently absent from the result.
type VideoStatsLister interface {
	VideoStatsBatch(ctx context.Context, videoIDs []string) ([]*domain.VideoStats, error)
}

// ClientFactory mints an independent playlist client. Concurrent discovery
// tasks each get their own handle; only the rate limiter and quota tracker
// are shared.
type ClientFactory func(ctx context.Context) (PlaylistLister, error)

// QuotaTracker is a mutex-guarded daily quota counter shared by every client
// of one run. The Data API quota resets at midnight Pacific time.
type QuotaTracker struct {
	mu     sync.Mutex
	used   int
	reset  time.Time
	logger *zap.Logger
}

func NewQuotaTracker(logger *zap.Logger) *QuotaTracker {
	return &QuotaTracker{
		reset:  nextQuotaReset(),
		logger: logger,
	}
}

func nextQuotaReset() time.Time {
	pt, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		pt = time.FixedZone("PT", -8*60*60)
	}
	now := time.Now().In(pt)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, pt)
}

func (q *QuotaTracker) Check(cost int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if time.Now().After(q.reset) {
		q.used = 0
		q.reset = nextQuotaReset()
	}

	if q.used+cost > constants.YouTubeAPI.DailyQuotaLimit-constants.YouTubeAPI.QuotaSafetyMargin {
		return apperrors.NewAPIError(
			fmt.Sprintf("daily quota exhausted: used %d/%d (requested %d more), resets at %s",
				q.used, constants.YouTubeAPI.DailyQuotaLimit, cost, q.reset.Format(time.RFC3339)),
			"quotaExceeded", nil)
	}

	return nil
}

func (q *QuotaTracker) Consume(cost int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.used += cost
	remaining := constants.YouTubeAPI.DailyQuotaLimit - q.used

	q.logger.Debug("API quota consumed",
		zap.Int("cost", cost),
		zap.Int("used", q.used),
		zap.Int("remaining", remaining))

	if remaining < constants.YouTubeAPI.QuotaSafetyMargin {
		q.logger.Warn("API quota running low",
			zap.Int("remaining", remaining),
			zap.Time("resetTime", q.reset))
	}
}

func (q *QuotaTracker) Status() (used, remaining int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used, constants.YouTubeAPI.DailyQuotaLimit - q.used
}

// YouTubeClient wraps the Data API for playlist pagination and batched
// statistics lookups.
type YouTubeClient struct {
	service *youtube.Service
	limiter *rate.Limiter
	quota   *QuotaTracker
	logger  *zap.Logger
}

func NewYouTubeClient(ctx context.Context, apiKey string, limiter *rate.Limiter, quota *QuotaTracker, logger *zap.Logger) (*YouTubeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &YouTubeClient{
		service: service,
		limiter: limiter,
		quota:   quota,
		logger:  logger,
	}, nil
}

// NewClientFactory returns a factory producing per-task clients that share
// this run's rate limiter and quota tracker.
func NewClientFactory(apiKey string, limiter *rate.Limiter, quota *QuotaTracker, logger *zap.Logger) ClientFactory {
	return func(ctx context.Context) (PlaylistLister, error) {
		return NewYouTubeClient(ctx, apiKey, limiter, quota, logger)
	}
}

// PlaylistItemsPage fetches one page of playlist items.
func (yc *YouTubeClient) PlaylistItemsPage(ctx context.Context, playlistID, pageToken string) (*PlaylistPage, error) {
	if err := yc.quota.Check(constants.YouTubeAPI.PlaylistItemsCost); err != nil {
		return nil, err
	}
	if err := yc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp *youtube.PlaylistItemListResponse
	err := yc.withRetry(ctx, "playlistItems.list", func() error {
		call := yc.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(constants.YouTubeAPI.PlaylistPageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		var callErr error
		resp, callErr = call.Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, err
	}

	yc.quota.Consume(constants.YouTubeAPI.PlaylistItemsCost)

	page := &PlaylistPage{
		Items:         make([]PlaylistItem, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			yc.logger.Warn("Unparseable publish timestamp, item skipped",
				zap.String("videoId", item.Snippet.ResourceId.VideoId),
				zap.String("publishedAt", item.Snippet.PublishedAt))
			continue
		}

		page.Items = append(page.Items, PlaylistItem{
			VideoID:     item.Snippet.ResourceId.VideoId,
			PublishedAt: publishedAt,
		})
	}

	return page, nil
}

// VideoStatsBatch fetches statistics for up to 50 video ids in one call.
func (yc *YouTubeClient) VideoStatsBatch(ctx context.Context, videoIDs []string) ([]*domain.VideoStats, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	if err := yc.quota.Check(constants.YouTubeAPI.VideosListCost); err != nil {
		return nil, err
	}
	if err := yc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp *youtube.VideoListResponse
	err := yc.withRetry(ctx, "videos.list", func() error {
		var callErr error
		resp, callErr = yc.service.Videos.List([]string{"snippet", "statistics"}).
			Id(videoIDs...).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, err
	}

	yc.quota.Consume(constants.YouTubeAPI.VideosListCost)

	stats := make([]*domain.VideoStats, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Statistics == nil {
			continue
		}

		vs := &domain.VideoStats{
			VideoID:   item.Id,
			ViewCount: item.Statistics.ViewCount,
			LikeCount: item.Statistics.LikeCount,
		}
		if item.Snippet != nil {
			vs.Title = item.Snippet.Title
			if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				vs.PublishedAt = t
			}
		}
		stats = append(stats, vs)
	}

	return stats, nil
}

// withRetry runs fn with bounded exponential backoff. Only transient
// failures are retried; quota, not-found and other client errors surface
// immediately.
func (yc *YouTubeClient) withRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= constants.RetryConfig.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return lastErr
		}
		if attempt == constants.RetryConfig.MaxAttempts {
			break
		}

		delay := constants.RetryConfig.BaseDelay*time.Duration(1<<(attempt-1)) +
			time.Duration(rand.Int63n(int64(constants.RetryConfig.Jitter)))
		yc.logger.Warn("Transient API failure, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(lastErr))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, constants.RetryConfig.MaxAttempts, lastErr)
}

func isTransient(err error) bool {
	if apiErr, ok := err.(*googleapi.Error); ok {
		return apiErr.Code >= 500
	}
	if _, ok := err.(*apperrors.APIError); ok {
		return false
	}
	// Plain transport errors (timeouts, resets) are worth another attempt.
	return !strings.Contains(err.Error(), "context canceled")
}

// IsPlaylistNotFound reports whether err is the platform's recoverable
// playlist-not-found response, the only API error treated as "zero videos"
// rather than a failure.
func IsPlaylistNotFound(err error) bool {
	if err == nil {
		return false
	}
	if apiErr, ok := err.(*googleapi.Error); ok {
		for _, item := range apiErr.Errors {
			if item.Reason == "playlistNotFound" {
				return true
			}
		}
	}
	return strings.Contains(err.Error(), "playlistNotFound")
}
