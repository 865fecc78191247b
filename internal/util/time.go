package util

import "time"

// SnapshotDate formats a time as the UTC calendar date used to key snapshot rows.
func SnapshotDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WindowCutoff returns the start of the trailing analysis window: days before now,
// in UTC.
func WindowCutoff(now time.Time, days int) time.Time {
	return now.UTC().Add(-time.Duration(days) * 24 * time.Hour)
}
