package domain

import "testing"

func TestPlaylistIDFor(t *testing.T) {
	cases := []struct {
		category Category
		want     string
	}{
		{CategoryNormal, "UULF12345"},
		{CategoryShort, "UUSH12345"},
		{CategoryLive, "UULV12345"},
	}

	for _, tc := range cases {
		got := PlaylistIDFor("UC12345", tc.category)
		if got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.category, tc.want, got)
		}
	}
}

func TestPlaylistIDForIsDeterministic(t *testing.T) {
	for _, category := range Categories() {
		first := PlaylistIDFor("UCxyz", category)
		for i := 0; i < 10; i++ {
			if got := PlaylistIDFor("UCxyz", category); got != first {
				t.Fatalf("%s: derivation not stable: %q vs %q", category, first, got)
			}
		}
	}
}

func TestPlaylistIDForShortID(t *testing.T) {
	if got := PlaylistIDFor("UC", CategoryNormal); got != "" {
		t.Errorf("expected empty playlist id for bare prefix, got %q", got)
	}
}

func TestResolvePlaylists(t *testing.T) {
	channel := ChannelEntry{Name: "A", ID: "UCabc"}
	playlists := ResolvePlaylists(channel)

	if len(playlists) != 3 {
		t.Fatalf("expected 3 playlists, got %d", len(playlists))
	}

	seen := make(map[Category]string)
	for _, p := range playlists {
		if p.Channel.Name != "A" {
			t.Errorf("channel not carried: %+v", p)
		}
		seen[p.Category] = p.PlaylistID
	}

	if seen[CategoryNormal] != "UULFabc" || seen[CategoryShort] != "UUSHabc" || seen[CategoryLive] != "UULVabc" {
		t.Errorf("unexpected playlist ids: %v", seen)
	}
}

func TestAccumulatorAdd(t *testing.T) {
	acc := make(Accumulator)
	key := AggregateKey{Channel: "A", Category: CategoryNormal}

	acc.Add(key, 100)
	acc.Add(key, 250)

	entry := acc[key]
	if entry.ViewCount != 350 {
		t.Errorf("expected 350 views, got %d", entry.ViewCount)
	}
	if entry.VideoCount != 2 {
		t.Errorf("expected 2 videos, got %d", entry.VideoCount)
	}
}
