package service

import (
	"github.com/kapu/youtube-analytics-go/internal/domain"
	"github.com/kapu/youtube-analytics-go/internal/util"
)

// BuildChannelRows produces one report row per configured channel for the
// given snapshot date. Channels with no aggregated data, including channels
// whose every API call failed, still appear with all-zero categories so the
// persisted time series keeps a stable schema.
func BuildChannelRows(channels []domain.ChannelEntry, acc domain.Accumulator, date string) []domain.ChannelReportRow {
	rows := make([]domain.ChannelReportRow, 0, len(channels))

	for _, channel := range channels {
		row := domain.ChannelReportRow{
			Date:        date,
			ChannelName: channel.Name,
			Totals:      make(map[domain.Category]domain.CategoryTotals, len(domain.Categories())),
		}

		for _, category := range domain.Categories() {
			entry := acc[domain.AggregateKey{Channel: channel.Name, Category: category}]
			row.Totals[category] = domain.CategoryTotals{
				Count:    entry.VideoCount,
				Views:    entry.ViewCount,
				AvgViews: averageViews(entry),
			}
		}

		rows = append(rows, row)
	}

	return rows
}

func averageViews(entry domain.AggregateEntry) float64 {
	if entry.VideoCount == 0 {
		return 0
	}
	return util.Round2(float64(entry.ViewCount) / float64(entry.VideoCount))
}
