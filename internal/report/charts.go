package report

import (
	"sort"

	"github.com/kapu/youtube-analytics-go/internal/domain"
	"github.com/kapu/youtube-analytics-go/internal/util"
)

var categoryColors = map[domain.Category]string{
	domain.CategoryNormal: "#636EFA",
	domain.CategoryShort:  "#EF553B",
	domain.CategoryLive:   "#00CC96",
}

var categoryLabels = map[domain.Category]string{
	domain.CategoryNormal: "Uploads",
	domain.CategoryShort:  "Shorts",
	domain.CategoryLive:   "Live",
}

// figure is a plotly figure: traces plus layout, marshalled to JSON for the
// embedded plotly.js runtime.
type figure struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
}

// channelTotals aggregates every snapshot row of one channel across dates.
type channelTotals struct {
	name   string
	counts map[domain.Category]int
	views  map[domain.Category]uint64
}

func sumByChannel(rows []domain.ChannelReportRow) []channelTotals {
	byName := make(map[string]*channelTotals)
	for _, row := range rows {
		ct, ok := byName[row.ChannelName]
		if !ok {
			ct = &channelTotals{
				name:   row.ChannelName,
				counts: make(map[domain.Category]int),
				views:  make(map[domain.Category]uint64),
			}
			byName[row.ChannelName] = ct
		}
		for _, category := range domain.Categories() {
			totals := row.Totals[category]
			ct.counts[category] += totals.Count
			ct.views[category] += totals.Views
		}
	}

	result := make([]channelTotals, 0, len(byName))
	for _, ct := range byName {
		result = append(result, *ct)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].name < result[j].name })
	return result
}

func channelNames(totals []channelTotals) []string {
	names := make([]string, 0, len(totals))
	for _, ct := range totals {
		names = append(names, ct.name)
	}
	return names
}

func barLayout(title, yTitle string) map[string]any {
	return map[string]any{
		"title":   map[string]any{"text": title},
		"barmode": "stack",
		"height":  600,
		"xaxis":   map[string]any{"title": map[string]any{"text": "Channel"}},
		"yaxis":   map[string]any{"title": map[string]any{"text": yTitle}},
		"legend":  map[string]any{"title": map[string]any{"text": "Video type"}},
	}
}

// totalViewsFigure is the stacked views-per-channel bar chart.
func totalViewsFigure(totals []channelTotals) figure {
	names := channelNames(totals)
	traces := make([]map[string]any, 0, len(domain.Categories()))

	for _, category := range domain.Categories() {
		views := make([]uint64, 0, len(totals))
		for _, ct := range totals {
			views = append(views, ct.views[category])
		}
		traces = append(traces, map[string]any{
			"type":   "bar",
			"name":   categoryLabels[category],
			"x":      names,
			"y":      views,
			"marker": map[string]any{"color": categoryColors[category]},
		})
	}

	return figure{Data: traces, Layout: barLayout("Total accumulated views by channel and video type", "Total views")}
}

// avgViewsFigure charts the weighted per-video view average by channel.
func avgViewsFigure(totals []channelTotals) figure {
	names := channelNames(totals)
	traces := make([]map[string]any, 0, len(domain.Categories()))

	for _, category := range domain.Categories() {
		avgs := make([]float64, 0, len(totals))
		for _, ct := range totals {
			avg := 0.0
			if count := ct.counts[category]; count > 0 {
				avg = util.Round2(float64(ct.views[category]) / float64(count))
			}
			avgs = append(avgs, avg)
		}
		traces = append(traces, map[string]any{
			"type":   "bar",
			"name":   categoryLabels[category],
			"x":      names,
			"y":      avgs,
			"marker": map[string]any{"color": categoryColors[category]},
		})
	}

	layout := barLayout("Average views per video by channel and video type", "Average views per video")
	delete(layout, "barmode")
	return figure{Data: traces, Layout: layout}
}

// viewsOverTimeFigure plots each category's daily view total across run dates.
func viewsOverTimeFigure(rows []domain.ChannelReportRow) figure {
	byDate := make(map[string]map[domain.Category]uint64)
	for _, row := range rows {
		day, ok := byDate[row.Date]
		if !ok {
			day = make(map[domain.Category]uint64)
			byDate[row.Date] = day
		}
		for _, category := range domain.Categories() {
			day[category] += row.Totals[category].Views
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	traces := make([]map[string]any, 0, len(domain.Categories()))
	for _, category := range domain.Categories() {
		views := make([]uint64, 0, len(dates))
		for _, date := range dates {
			views = append(views, byDate[date][category])
		}
		traces = append(traces, map[string]any{
			"type":   "scatter",
			"mode":   "lines+markers",
			"name":   categoryLabels[category],
			"x":      dates,
			"y":      views,
			"marker": map[string]any{"color": categoryColors[category]},
			"line":   map[string]any{"color": categoryColors[category]},
		})
	}

	layout := map[string]any{
		"title":  map[string]any{"text": "Total views by video type over time"},
		"height": 600,
		"xaxis":  map[string]any{"title": map[string]any{"text": "Date"}},
		"yaxis":  map[string]any{"title": map[string]any{"text": "Total views"}},
		"legend": map[string]any{"title": map[string]any{"text": "Video type"}},
	}
	return figure{Data: traces, Layout: layout}
}

// videoCountFigure is the stacked uploads-per-channel bar chart.
func videoCountFigure(totals []channelTotals) figure {
	names := channelNames(totals)
	traces := make([]map[string]any, 0, len(domain.Categories()))

	for _, category := range domain.Categories() {
		counts := make([]int, 0, len(totals))
		for _, ct := range totals {
			counts = append(counts, ct.counts[category])
		}
		traces = append(traces, map[string]any{
			"type":   "bar",
			"name":   categoryLabels[category],
			"x":      names,
			"y":      counts,
			"marker": map[string]any{"color": categoryColors[category]},
		})
	}

	return figure{Data: traces, Layout: barLayout("Total videos uploaded by channel and video type", "Video count")}
}
