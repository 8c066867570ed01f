package domain

import (
	"sort"
	"strings"
)

// FilterByName restricts repos to the names listed in wanted, comparing
// case-insensitively on the exact name. An empty wanted list disables
// filtering and returns repos unchanged. The second return value lists
// the requested names with no match among repos, preserving the caller's
// original casing, sorted. Wanted names that differ only in case are
// collapsed onto the first spelling seen.
//
// A zero-length filtered result is a valid outcome ("nothing to
// analyze"), not an error: the decision is left to the caller.
func FilterByName(repos []Repository, wanted []string) (filtered []Repository, missing []string) {
	if len(wanted) == 0 {
		return repos, nil
	}

	// lowercased name -> original casing, for the missing report
	wantedByLower := make(map[string]string, len(wanted))
	for _, name := range wanted {
		lower := strings.ToLower(name)
		if _, ok := wantedByLower[lower]; !ok {
			wantedByLower[lower] = name
		}
	}

	found := make(map[string]struct{}, len(wantedByLower))
	for _, repo := range repos {
		lower := strings.ToLower(repo.Name)
		if _, ok := wantedByLower[lower]; ok {
			filtered = append(filtered, repo)
			found[lower] = struct{}{}
		}
	}

	for lower, original := range wantedByLower {
		if _, ok := found[lower]; !ok {
			missing = append(missing, original)
		}
	}
	sort.Strings(missing)

	return filtered, missing
}
