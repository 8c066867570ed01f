// Package gateway provides a gateway to the GitHub REST API for listing
// an organization's repositories, members and commits.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/recent-contributors/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
//
// The three methods carry deliberately different failure contracts:
// ListRepositories fails hard with a classified error, ListCommits
// returns whatever it collected before a failure alongside the error,
// and ListMembers never fails at all.
type Fetcher interface {
	ListRepositories(ctx context.Context, org string) ([]domain.Repository, error)
	ListMembers(ctx context.Context, org string) map[string]struct{}
	ListCommits(ctx context.Context, owner, repo string, since, until time.Time) ([]domain.Commit, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	client   *github.Client
	logger   *log.Logger
	pageSize int
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The transport smooths GitHub's secondary (abuse) rate limits; a primary
// rate-limit 403 still surfaces to the caller.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		client:   github.NewClient(httpClient),
		logger:   logger,
		pageSize: 100,
	}, nil
}

// fetchAllPages requests successive pages, starting at page 1, until a
// page comes back with zero items, and returns the concatenation of
// everything seen. It does not interpret errors: the items collected
// before a failure are returned alongside it, so each caller applies its
// own failure policy.
func fetchAllPages[T any](fetch func(page int) ([]T, error)) ([]T, error) {
	var items []T
	for page := 1; ; page++ {
		pageItems, err := fetch(page)
		if err != nil {
			return items, err
		}
		if len(pageItems) == 0 {
			return items, nil
		}
		items = append(items, pageItems...)
	}
}

// ListRepositories returns the full, unfiltered repository list of the
// organization. Any failure aborts with a classified error; there is no
// partial result on this path.
func (g *GitHubGateway) ListRepositories(ctx context.Context, org string) ([]domain.Repository, error) {
	g.logger.Printf("Fetching repositories for %s...", org)

	repos, err := fetchAllPages(func(page int) ([]*github.Repository, error) {
		g.logger.Printf("  Fetching repositories page %d...", page)
		opts := &github.RepositoryListByOrgOptions{
			ListOptions: github.ListOptions{Page: page, PerPage: g.pageSize},
		}
		pageRepos, _, err := g.client.Repositories.ListByOrg(ctx, org, opts)
		return pageRepos, err
	})
	if err != nil {
		return nil, g.classifyRepoListError(org, err)
	}

	out := make([]domain.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, domain.Repository{
			Name:    r.GetName(),
			Owner:   r.GetOwner().GetLogin(),
			HTMLURL: r.GetHTMLURL(),
		})
	}
	g.logger.Printf("Total repositories found: %d", len(out))
	return out, nil
}

// classifyRepoListError maps a go-github error onto the gateway's error
// taxonomy: rate limit, access denied, or plain request failure.
func (g *GitHubGateway) classifyRepoListError(org string, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitError{Message: rateErr.Message}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &RateLimitError{Message: abuseErr.Message}
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		status := respErr.Response.StatusCode
		if status == http.StatusForbidden {
			if strings.Contains(strings.ToLower(respErr.Message), "rate limit") {
				return &RateLimitError{Message: respErr.Message}
			}
			return &AccessDeniedError{Org: org, Message: respErr.Message}
		}
		return &RequestError{Org: org, StatusCode: status}
	}
	return fmt.Errorf("fetching repositories for organization %s: %w", org, err)
}

// ListMembers collects the organization's member logins. Membership is
// auxiliary data, used only for the committing-members intersection: any
// failure stops pagination and whatever was collected so far is
// returned, so this never fails a run.
func (g *GitHubGateway) ListMembers(ctx context.Context, org string) map[string]struct{} {
	g.logger.Printf("Fetching members for %s...", org)

	users, err := fetchAllPages(func(page int) ([]*github.User, error) {
		opts := &github.ListMembersOptions{
			ListOptions: github.ListOptions{Page: page, PerPage: g.pageSize},
		}
		pageUsers, _, err := g.client.Organizations.ListMembers(ctx, org, opts)
		return pageUsers, err
	})
	if err != nil {
		g.logger.Printf("  Member listing degraded, continuing with %d members: %v", len(users), err)
	}

	members := make(map[string]struct{}, len(users))
	for _, u := range users {
		members[u.GetLogin()] = struct{}{}
	}
	return members
}

// ListCommits pages through the repository's commits within [since,
// until]. On a failed page it returns the commits already collected
// together with the error; the caller decides whether that degrades the
// repository or the run.
func (g *GitHubGateway) ListCommits(ctx context.Context, owner, repo string, since, until time.Time) ([]domain.Commit, error) {
	repoCommits, err := fetchAllPages(func(page int) ([]*github.RepositoryCommit, error) {
		g.logger.Printf("  Fetching commits page %d...", page)
		opts := &github.CommitsListOptions{
			Since:       since,
			Until:       until,
			ListOptions: github.ListOptions{Page: page, PerPage: g.pageSize},
		}
		pageCommits, _, err := g.client.Repositories.ListCommits(ctx, owner, repo, opts)
		return pageCommits, err
	})

	commits := make([]domain.Commit, 0, len(repoCommits))
	for _, rc := range repoCommits {
		c := domain.Commit{AuthorName: rc.GetCommit().GetAuthor().GetName()}
		// A commit may legitimately have no linked account, e.g. an
		// unverified email address.
		if rc.Author != nil {
			c.Login = rc.Author.GetLogin()
		}
		commits = append(commits, c)
	}

	if err != nil {
		return commits, fmt.Errorf("fetching commits for %s/%s: %w", owner, repo, err)
	}
	return commits, nil
}
