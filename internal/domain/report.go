package domain

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

// Summary holds organization-wide derived figures for one run.
type Summary struct {
	RepositoriesAnalyzed int     `json:"repositories_analyzed"`
	TotalCommits         int     `json:"total_commits"`
	UniqueCommitAuthors  int     `json:"unique_commit_authors"`
	MeanCommitsPerRepo   float64 `json:"mean_commits_per_repo"`
	MedianCommitsPerRepo float64 `json:"median_commits_per_repo"`
	MaxCommitsPerRepo    float64 `json:"max_commits_per_repo"`
}

// Report is the complete, immutable result of one aggregation run. It is
// the single structure handed to the output layer for serialization.
//
// Naming note: the top-level CommitAuthors field holds account *logins*
// (the union of every repository's GitHubAuthors keys), while the
// per-repository commit_authors maps hold free-text author names. The
// JSON keys follow the established artifact schema, committing_members
// misspelling included.
type Report struct {
	Organization      string                   `json:"organization"`
	Date              string                   `json:"date"`
	NumberOfDays      int                      `json:"number_of_days_history"`
	OrgMembers        []string                 `json:"org_members"`
	CommitAuthors     []string                 `json:"commit_authors"`
	CommittingMembers []string                 `json:"commiting_members"`
	ReposDetail       map[string]*RepoActivity `json:"repos_detail"`
	Summary           Summary                  `json:"summary"`
}

// BuildReport packages per-repository aggregates and the membership
// roster into a Report. The committing-members set is the intersection of
// the commit-login union and the member set. BuildReport performs no
// I/O and no further filtering.
func BuildReport(org string, days int, members, authorNames, logins map[string]struct{}, perRepo map[string]*RepoActivity) *Report {
	committing := make([]string, 0)
	for login := range logins {
		if _, ok := members[login]; ok {
			committing = append(committing, login)
		}
	}
	sort.Strings(committing)

	if perRepo == nil {
		perRepo = map[string]*RepoActivity{}
	}

	return &Report{
		Organization:      org,
		Date:              time.Now().UTC().Format("2006-01-02"),
		NumberOfDays:      days,
		OrgMembers:        sortedKeys(members),
		CommitAuthors:     sortedKeys(logins),
		CommittingMembers: committing,
		ReposDetail:       perRepo,
		Summary:           summarize(perRepo, authorNames),
	}
}

func summarize(perRepo map[string]*RepoActivity, authorNames map[string]struct{}) Summary {
	s := Summary{
		RepositoriesAnalyzed: len(perRepo),
		UniqueCommitAuthors:  len(authorNames),
	}
	if len(perRepo) == 0 {
		return s
	}

	totals := make(stats.Float64Data, 0, len(perRepo))
	for _, activity := range perRepo {
		s.TotalCommits += activity.TotalCommits
		totals = append(totals, float64(activity.TotalCommits))
	}
	if mean, err := totals.Mean(); err == nil {
		s.MeanCommitsPerRepo = mean
	}
	if median, err := totals.Median(); err == nil {
		s.MedianCommitsPerRepo = median
	}
	if max, err := totals.Max(); err == nil {
		s.MaxCommitsPerRepo = max
	}
	return s
}

// sortedKeys turns a set into a sorted slice. The result is never nil so
// empty sets serialize as [] rather than null.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
