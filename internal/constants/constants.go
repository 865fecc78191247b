package constants

import "time"

var YouTubeAPI = struct {
	PlaylistPageSize  int64
	StatsBatchSize    int
	DailyQuotaLimit   int
	QuotaSafetyMargin int
	PlaylistItemsCost int
	VideosListCost    int
}{
	PlaylistPageSize:  50, // playlistItems.list maximum
	StatsBatchSize:    50, // videos.list maximum ids per call
	DailyQuotaLimit:   10000,
	QuotaSafetyMargin: 500,
	PlaylistItemsCost: 1,
	VideosListCost:    1,
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var DiscoveryConfig = struct {
	DefaultMaxWorkers int
	PoolSlack         int
}{
	DefaultMaxWorkers: 8,
	PoolSlack:         2, // pool size = min(cap, tasks + slack)
}

var RateLimitConfig = struct {
	DefaultRPS float64
	Burst      int
}{
	DefaultRPS: 1.0,
	Burst:      1,
}
