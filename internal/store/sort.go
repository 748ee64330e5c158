package store

import (
	"slices"
	"strings"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

func sortOldestFirst(records []model.ReportRecord) {
	slices.SortStableFunc(records, func(a, b model.ReportRecord) int {
		return a.ReportedAt.Compare(b.ReportedAt)
	})
}

func sortNewestFirst(records []model.ReportRecord) {
	slices.SortStableFunc(records, func(a, b model.ReportRecord) int {
		return b.ReportedAt.Compare(a.ReportedAt)
	})
}

func sortArtifactsNewestFirst(infos []ArtifactInfo) {
	slices.SortFunc(infos, func(a, b ArtifactInfo) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.Name, a.Name)
	})
}

// truncate returns the first limit items; a non-positive limit keeps all.
func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
