package domain

// Category identifies one of the three platform-managed upload lists a
// channel's content is partitioned into.
type Category string

const (
	CategoryNormal Category = "NORMAL" // regular uploads
	CategoryShort  Category = "SHORT"  // short-form clips
	CategoryLive   Category = "LIVE"   // livestream recordings
)

// Categories returns all categories in the order snapshot columns use.
func Categories() []Category {
	return []Category{CategoryNormal, CategoryShort, CategoryLive}
}

// playlistPrefixes maps each category to the uploads-playlist prefix that
// replaces a channel id's UC prefix.
var playlistPrefixes = map[Category]string{
	CategoryNormal: "UULF",
	CategoryShort:  "UUSH",
	CategoryLive:   "UULV",
}

// CategoryPlaylist is the per-(channel, category) uploads playlist.
type CategoryPlaylist struct {
	Channel    ChannelEntry
	Category   Category
	PlaylistID string
}

// PlaylistIDFor derives the category playlist id from a channel id. The
// derivation is deterministic: the same channel id always yields the same
// playlist id.
func PlaylistIDFor(channelID string, category Category) string {
	if len(channelID) <= len(ChannelIDPrefix) {
		return ""
	}
	return playlistPrefixes[category] + channelID[len(ChannelIDPrefix):]
}

// ResolvePlaylists expands a channel into its three category playlists.
func ResolvePlaylists(channel ChannelEntry) []CategoryPlaylist {
	playlists := make([]CategoryPlaylist, 0, len(playlistPrefixes))
	for _, category := range Categories() {
		playlists = append(playlists, CategoryPlaylist{
			Channel:    channel,
			Category:   category,
			PlaylistID: PlaylistIDFor(channel.ID, category),
		})
	}
	return playlists
}
