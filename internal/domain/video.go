package domain

import "time"

// DiscoveredVideo is a video id found in a category playlist within the
// analysis window, tagged with where it came from.
type DiscoveredVideo struct {
	VideoID     string
	Channel     string
	Category    Category
	PublishedAt time.Time
}

// VideoStats is one video's statistics as returned by a videos.list call.
// A discovered video may be absent from every stats response; that is a
// platform inconsistency, not an error.
type VideoStats struct {
	VideoID     string
	Title       string
	ViewCount   uint64
	LikeCount   uint64
	PublishedAt time.Time
}

// AggregateKey addresses one (channel, category) accumulator slot.
type AggregateKey struct {
	Channel  string
	Category Category
}

// AggregateEntry holds the running totals for one key. VideoCount counts
// only videos actually present in stats responses, never merely discovered
// ones.
type AggregateEntry struct {
	ViewCount  uint64
	VideoCount int
}

// Accumulator is the per-run aggregation state, rebuilt fresh every run.
type Accumulator map[AggregateKey]AggregateEntry

// Add folds one confirmed video's views into a key.
func (a Accumulator) Add(key AggregateKey, views uint64) {
	entry := a[key]
	entry.ViewCount += views
	entry.VideoCount++
	a[key] = entry
}

// CategoryTotals is one category's slice of a report row.
type CategoryTotals struct {
	Count    int
	Views    uint64
	AvgViews float64
}

// ChannelReportRow is one channel's snapshot for one run date. Every
// configured channel produces exactly one row per run, all-zero categories
// included.
type ChannelReportRow struct {
	Date        string
	ChannelName string
	Totals      map[Category]CategoryTotals
}

// VideoDetailRow is one video's full detail line in a per-video report.
type VideoDetailRow struct {
	Date        string
	ChannelName string
	Category    Category
	VideoID     string
	Title       string
	ViewCount   uint64
	LikeCount   uint64
	PublishedAt time.Time
}
