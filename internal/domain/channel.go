package domain

import "strings"

// ChannelIDPrefix is the prefix every YouTube channel id carries; the
// category playlist ids are derived from the remainder.
const ChannelIDPrefix = "UC"

// ChannelEntry maps a display name to a YouTube channel id.
type ChannelEntry struct {
	Name string
	ID   string
}

// ParseChannelMap parses the "name1:id1,name2:id2" channel map string.
// Entries that are malformed or whose id does not carry the UC prefix are
// returned separately so the caller can warn about them; they never fail
// the parse.
func ParseChannelMap(raw string) (entries []ChannelEntry, skipped []string) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	for _, part := range strings.Split(raw, ",") {
		fields := strings.Split(part, ":")
		if len(fields) != 2 {
			skipped = append(skipped, part)
			continue
		}

		name := strings.TrimSpace(fields[0])
		id := strings.TrimSpace(fields[1])
		if name == "" || !strings.HasPrefix(id, ChannelIDPrefix) {
			skipped = append(skipped, part)
			continue
		}

		entries = append(entries, ChannelEntry{Name: name, ID: id})
	}

	return entries, skipped
}
