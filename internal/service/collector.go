package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// VideoCollector paginates a category playlist and keeps the video ids
// published on or after a cutoff.
type VideoCollector struct {
	api    PlaylistLister
	logger *zap.Logger
}

func NewVideoCollector(api PlaylistLister, logger *zap.Logger) *VideoCollector {
	return &VideoCollector{api: api, logger: logger}
}

// Collect walks every page of the playlist and returns the ids of items
// published at or after cutoff, in page order.
//
// Playlist order is usually reverse-chronological, but the platform does not
// guarantee it, so every page is scanned until a token-less final page
// instead of stopping at the first out-of-window item.
//
// A playlist-not-found response yields an empty result and no error; the
// playlist simply has no content for this run. Any other failure aborts
// only this playlist's collection.
func (vc *VideoCollector) Collect(ctx context.Context, playlistID string, cutoff time.Time) ([]string, error) {
	var videoIDs []string
	pageToken := ""

	for {
		page, err := vc.api.PlaylistItemsPage(ctx, playlistID, pageToken)
		if err != nil {
			if IsPlaylistNotFound(err) {
				vc.logger.Info("Playlist not found, treating as empty",
					zap.String("playlist", playlistID))
				return nil, nil
			}
			return nil, fmt.Errorf("listing playlist %s: %w", playlistID, err)
		}

		for _, item := range page.Items {
			if item.PublishedAt.Before(cutoff) {
				continue
			}
			videoIDs = append(videoIDs, item.VideoID)
		}

		if page.NextPageToken == "" {
			return videoIDs, nil
		}
		pageToken = page.NextPageToken
	}
}
