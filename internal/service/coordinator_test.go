package service

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/youtube-analytics-go/internal/domain"
)

func testTasks(channels ...domain.ChannelEntry) []DiscoveryTask {
	return BuildDiscoveryTasks(channels, time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC))
}

func pageFor(ids ...string) map[string]*PlaylistPage {
	items := make([]PlaylistItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, item(id, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)))
	}
	return map[string]*PlaylistPage{"": {Items: items}}
}

func TestBuildDiscoveryTasks(t *testing.T) {
	tasks := testTasks(
		domain.ChannelEntry{Name: "A", ID: "UCxxxx"},
		domain.ChannelEntry{Name: "B", ID: "UCyyyy"},
	)

	if len(tasks) != 6 {
		t.Fatalf("expected one task per (channel, category), got %d", len(tasks))
	}

	playlists := make(map[string]struct{})
	for _, task := range tasks {
		playlists[task.Playlist.PlaylistID] = struct{}{}
	}
	for _, want := range []string{"UULFxxxx", "UUSHxxxx", "UULVxxxx", "UULFyyyy", "UUSHyyyy", "UULVyyyy"} {
		if _, ok := playlists[want]; !ok {
			t.Errorf("missing task for playlist %s", want)
		}
	}
}

func TestDiscoverAllMergesSuccessesAndIsolatesFailures(t *testing.T) {
	var factoryCalls atomic.Int32

	api := &fakePlaylistAPI{
		pages: map[string]map[string]*PlaylistPage{
			"UULFxxxx": pageFor("v1", "v2"),
			"UUSHxxxx": pageFor("s1"),
			// UULVxxxx absent → playlistNotFound → empty success
			"UULFyyyy": pageFor("n1"),
			"UUSHyyyy": pageFor(),
		},
		errs: map[string]error{
			"UULVyyyy": errors.New("googleapi: Error 500: backendError"),
		},
	}

	factory := func(context.Context) (PlaylistLister, error) {
		factoryCalls.Add(1)
		return api, nil
	}

	coordinator := NewDiscoveryCoordinator(factory, 4, zap.NewNop())
	tasks := testTasks(
		domain.ChannelEntry{Name: "A", ID: "UCxxxx"},
		domain.ChannelEntry{Name: "B", ID: "UCyyyy"},
	)

	videos, failures := coordinator.DiscoverAll(context.Background(), tasks)

	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].Channel != "B" || failures[0].Category != domain.CategoryLive {
		t.Errorf("wrong failure attribution: %+v", failures[0])
	}

	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.VideoID)
	}
	sort.Strings(ids)
	want := []string{"n1", "s1", "v1", "v2"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}

	// Every task gets its own client handle.
	if int(factoryCalls.Load()) != len(tasks) {
		t.Errorf("expected %d factory calls, got %d", len(tasks), factoryCalls.Load())
	}
}

func TestDiscoverAllTagsVideosWithOrigin(t *testing.T) {
	api := &fakePlaylistAPI{
		pages: map[string]map[string]*PlaylistPage{
			"UUSHxxxx": pageFor("s1"),
		},
	}
	factory := func(context.Context) (PlaylistLister, error) { return api, nil }

	coordinator := NewDiscoveryCoordinator(factory, 2, zap.NewNop())
	videos, _ := coordinator.DiscoverAll(context.Background(),
		testTasks(domain.ChannelEntry{Name: "A", ID: "UCxxxx"}))

	var short *domain.DiscoveredVideo
	for i := range videos {
		if videos[i].VideoID == "s1" {
			short = &videos[i]
		}
	}
	if short == nil {
		t.Fatal("s1 not discovered")
	}
	if short.Channel != "A" || short.Category != domain.CategoryShort {
		t.Errorf("wrong tag: %+v", short)
	}
}

func TestDiscoverAllExpiredContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	factory := func(context.Context) (PlaylistLister, error) {
		t.Error("no client should be built after the deadline")
		return nil, errors.New("unreachable")
	}

	coordinator := NewDiscoveryCoordinator(factory, 4, zap.NewNop())
	tasks := testTasks(domain.ChannelEntry{Name: "A", ID: "UCxxxx"})

	videos, failures := coordinator.DiscoverAll(ctx, tasks)

	if len(videos) != 0 {
		t.Errorf("expected no videos, got %d", len(videos))
	}
	if len(failures) != len(tasks) {
		t.Errorf("every submitted task must still be reported: %d of %d", len(failures), len(tasks))
	}
}

func TestDiscoverAllFactoryFailure(t *testing.T) {
	factory := func(context.Context) (PlaylistLister, error) {
		return nil, errors.New("bad credentials")
	}

	coordinator := NewDiscoveryCoordinator(factory, 4, zap.NewNop())
	tasks := testTasks(domain.ChannelEntry{Name: "A", ID: "UCxxxx"})

	videos, failures := coordinator.DiscoverAll(context.Background(), tasks)
	if len(videos) != 0 || len(failures) != len(tasks) {
		t.Errorf("expected all tasks to fail, got %d videos / %d failures", len(videos), len(failures))
	}
}

func TestDiscoverSequentialMatchesConcurrentContent(t *testing.T) {
	api := &fakePlaylistAPI{
		pages: map[string]map[string]*PlaylistPage{
			"UULFxxxx": pageFor("v1"),
			"UUSHxxxx": pageFor("s1", "s2"),
		},
		errs: map[string]error{
			"UULVxxxx": errors.New("googleapi: Error 500: backendError"),
		},
	}
	factory := func(context.Context) (PlaylistLister, error) { return api, nil }
	tasks := testTasks(domain.ChannelEntry{Name: "A", ID: "UCxxxx"})

	seqVideos, seqFailures := NewDiscoveryCoordinator(factory, 4, zap.NewNop()).
		DiscoverSequential(context.Background(), tasks)
	conVideos, conFailures := NewDiscoveryCoordinator(factory, 4, zap.NewNop()).
		DiscoverAll(context.Background(), tasks)

	if len(seqFailures) != 1 || len(conFailures) != 1 {
		t.Fatalf("both modes must isolate the failure: %d / %d", len(seqFailures), len(conFailures))
	}

	collect := func(videos []domain.DiscoveredVideo) []string {
		ids := make([]string, 0, len(videos))
		for _, v := range videos {
			ids = append(ids, v.VideoID)
		}
		sort.Strings(ids)
		return ids
	}

	seq, con := collect(seqVideos), collect(conVideos)
	if len(seq) != len(con) {
		t.Fatalf("modes disagree: %v vs %v", seq, con)
	}
	for i := range seq {
		if seq[i] != con[i] {
			t.Fatalf("modes disagree: %v vs %v", seq, con)
		}
	}
}

func TestDiscoverAllEmptyTasks(t *testing.T) {
	coordinator := NewDiscoveryCoordinator(nil, 4, zap.NewNop())
	videos, failures := coordinator.DiscoverAll(context.Background(), nil)
	if videos != nil || failures != nil {
		t.Errorf("expected nothing for no tasks, got %v / %v", videos, failures)
	}
}
