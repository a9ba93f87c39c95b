// Package search filters file records by a fuzzy path query.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/temirov/ctxcopy/internal/types"
)

// Filter returns the records whose path fuzzy-matches query, case
// insensitively, best matches first. Ties keep the input order. An empty
// query returns every record.
func Filter(records []types.FileRecord, query string) []types.FileRecord {
	trimmedQuery := strings.TrimSpace(query)
	if trimmedQuery == "" {
		return append([]types.FileRecord(nil), records...)
	}

	paths := make([]string, len(records))
	for recordIndex, record := range records {
		paths[recordIndex] = record.Path
	}
	ranks := fuzzy.RankFindFold(trimmedQuery, paths)
	sort.SliceStable(ranks, func(left, right int) bool {
		if ranks[left].Distance != ranks[right].Distance {
			return ranks[left].Distance < ranks[right].Distance
		}
		return ranks[left].OriginalIndex < ranks[right].OriginalIndex
	})

	matches := make([]types.FileRecord, 0, len(ranks))
	for _, rank := range ranks {
		matches = append(matches, records[rank.OriginalIndex])
	}
	return matches
}

// Paths returns the paths of the records matching query, in Filter order.
func Paths(records []types.FileRecord, query string) []string {
	matches := Filter(records, query)
	paths := make([]string, 0, len(matches))
	for _, record := range matches {
		paths = append(paths, record.Path)
	}
	return paths
}
