package store

import "time"

// storedTimeLayout is the fixed-width UTC layout used for persisted timestamps.
// Fixed width keeps lexical order equal to chronological order in SQL range queries.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z"

// timestampFormats contains the timestamp formats accepted when reading.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimeLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999", // ISO 8601 without timezone, as older report files
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05", // SQLite default datetime format
}

// formatTimestamp renders t in storedTimeLayout.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// Timestamps without a zone are taken as UTC. If parsing fails with all
// formats, it returns the zero time so the record drops out of every window.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
