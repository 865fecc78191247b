package service

import (
	"testing"

	"github.com/kapu/youtube-analytics-go/internal/domain"
)

func TestBuildChannelRowsAlwaysOnePerChannel(t *testing.T) {
	channels := []domain.ChannelEntry{
		{Name: "A", ID: "UCxxxx"},
		{Name: "B", ID: "UCyyyy"},
		{Name: "C", ID: "UCzzzz"},
	}

	// Only A/NORMAL has data; every other key failed or was empty.
	acc := domain.Accumulator{
		{Channel: "A", Category: domain.CategoryNormal}: {ViewCount: 12000, VideoCount: 60},
	}

	rows := BuildChannelRows(channels, acc, "2026-08-29")

	if len(rows) != len(channels) {
		t.Fatalf("expected %d rows, got %d", len(channels), len(rows))
	}

	rowA := rows[0]
	if rowA.ChannelName != "A" || rowA.Date != "2026-08-29" {
		t.Fatalf("unexpected first row: %+v", rowA)
	}

	normal := rowA.Totals[domain.CategoryNormal]
	if normal.Count != 60 || normal.Views != 12000 {
		t.Errorf("expected 60/12000 for (A, NORMAL), got %+v", normal)
	}
	if normal.AvgViews != 200.0 {
		t.Errorf("expected avg 200.0, got %v", normal.AvgViews)
	}

	for _, category := range []domain.Category{domain.CategoryShort, domain.CategoryLive} {
		if totals := rowA.Totals[category]; totals.Count != 0 || totals.Views != 0 || totals.AvgViews != 0 {
			t.Errorf("(A, %s) should be zero, got %+v", category, totals)
		}
	}

	for _, row := range rows[1:] {
		for _, category := range domain.Categories() {
			totals := row.Totals[category]
			if totals.Count != 0 || totals.Views != 0 || totals.AvgViews != 0 {
				t.Errorf("(%s, %s) should be all-zero, got %+v", row.ChannelName, category, totals)
			}
		}
	}
}

func TestBuildChannelRowsZeroCountNeverDivides(t *testing.T) {
	channels := []domain.ChannelEntry{{Name: "A", ID: "UCxxxx"}}
	acc := domain.Accumulator{
		// A count of zero with non-zero views cannot come out of the
		// fetcher, but the builder must still refuse to divide.
		{Channel: "A", Category: domain.CategoryLive}: {ViewCount: 500, VideoCount: 0},
	}

	rows := BuildChannelRows(channels, acc, "2026-08-29")
	if avg := rows[0].Totals[domain.CategoryLive].AvgViews; avg != 0 {
		t.Errorf("expected zero average for zero count, got %v", avg)
	}
}

func TestBuildChannelRowsRoundsToTwoDecimals(t *testing.T) {
	channels := []domain.ChannelEntry{{Name: "A", ID: "UCxxxx"}}
	acc := domain.Accumulator{
		{Channel: "A", Category: domain.CategoryNormal}: {ViewCount: 100, VideoCount: 3},
	}

	rows := BuildChannelRows(channels, acc, "2026-08-29")
	if avg := rows[0].Totals[domain.CategoryNormal].AvgViews; avg != 33.33 {
		t.Errorf("expected 33.33, got %v", avg)
	}
}

func TestBuildChannelRowsEmptyChannels(t *testing.T) {
	rows := BuildChannelRows(nil, domain.Accumulator{}, "2026-08-29")
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
