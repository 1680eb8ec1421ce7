package feed

import (
	"github.com/lysyi3m/rss-desk/app/database"
)

// MergeByID prepends incoming articles to existing, dropping any incoming
// article whose id is already present. Use it where a client holds a local
// copy of the article list and receives a new ingestion batch.
func MergeByID(existing, incoming []database.Article) []database.Article {
	seen := make(map[int]struct{}, len(existing)+len(incoming))
	for _, a := range existing {
		seen[a.ID] = struct{}{}
	}

	merged := make([]database.Article, 0, len(existing)+len(incoming))
	for _, a := range incoming {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		merged = append(merged, a)
	}

	return append(merged, existing...)
}
