package digest

import (
	"fmt"
	"time"
)

// DefaultWindowDays is the length of the default digest window.
const DefaultWindowDays = 7

// artifactPrefix is the file name prefix of rendered digests.
const artifactPrefix = "weekly_digest_"

// Window is a closed time interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// LastDays returns the window of the given number of days ending at now, in UTC.
func LastDays(now time.Time, days int) Window {
	end := now.UTC()
	return Window{
		Start: end.AddDate(0, 0, -days),
		End:   end,
	}
}

// Valid reports whether Start does not come after End.
func (w Window) Valid() bool {
	return !w.Start.After(w.End)
}

// ArtifactName returns the dated file name for a digest ending at end,
// for example weekly_digest_20250105.html.
func ArtifactName(end time.Time, ext string) string {
	return fmt.Sprintf("%s%s.%s", artifactPrefix, end.UTC().Format("20060102"), ext)
}
