// Package domain contains the core data structures and domain logic for the application.
package domain

import "encoding/json"

// Repository identifies a single repository of the analyzed organization,
// as returned by GitHub.
type Repository struct {
	Name    string
	Owner   string
	HTMLURL string
}

// Commit carries the two identity axes of a single commit: the free-text
// author name recorded in the commit metadata and, when GitHub could link
// the commit to an account, that account's login.
type Commit struct {
	AuthorName string
	Login      string // empty when no account is linked to the commit
}

// RepoActivity aggregates the commit activity of one repository within
// the analysis window. CommitAuthors is keyed by free-text author name,
// GitHubAuthors by account login. Every commit counts toward TotalCommits
// and exactly one CommitAuthors entry; only commits with a linked account
// count toward GitHubAuthors. That keeps sum(CommitAuthors) equal to
// TotalCommits, while sum(GitHubAuthors) may be smaller.
type RepoActivity struct {
	URL           string
	TotalCommits  int
	CommitAuthors map[string]int
	GitHubAuthors map[string]int
}

// NewRepoActivity creates an empty aggregate for a repository.
func NewRepoActivity(url string) *RepoActivity {
	return &RepoActivity{
		URL:           url,
		CommitAuthors: make(map[string]int),
		GitHubAuthors: make(map[string]int),
	}
}

// Add records one commit in the aggregate. A blank author name is counted
// under the empty string: malformed metadata is surfaced in the report,
// not repaired.
func (a *RepoActivity) Add(c Commit) {
	a.TotalCommits++
	a.CommitAuthors[c.AuthorName]++
	if c.Login != "" {
		a.GitHubAuthors[c.Login]++
	}
}

// MarshalJSON emits the per-repository report entry. The unique counts
// are derived from the count maps at serialization time, never stored.
func (a *RepoActivity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		URL                      string         `json:"repository_url"`
		TotalCommits             int            `json:"total_commits"`
		UniqueContributorsCount  int            `json:"unique_contributors_count"`
		UniqueGitHubAuthorsCount int            `json:"unique_github_authors_count"`
		CommitAuthors            map[string]int `json:"commit_authors"`
		GitHubAuthors            map[string]int `json:"github_authors"`
	}{
		URL:                      a.URL,
		TotalCommits:             a.TotalCommits,
		UniqueContributorsCount:  len(a.CommitAuthors),
		UniqueGitHubAuthorsCount: len(a.GitHubAuthors),
		CommitAuthors:            a.CommitAuthors,
		GitHubAuthors:            a.GitHubAuthors,
	})
}
