// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/recent-contributors/internal/domain"
	"github.com/naka-gawa/recent-contributors/internal/gateway"
)

// Aggregator is the use case for aggregating recent contributor activity
// across an organization. It orchestrates listing, filtering, per-repository
// commit aggregation and report assembly.
type Aggregator struct {
	fetcher     gateway.Fetcher
	logger      *log.Logger
	concurrency int
}

// NewAggregator creates a new Aggregator instance. concurrency bounds how
// many repositories are analyzed in parallel; values below 1 are treated
// as 1, which processes repositories strictly sequentially.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger, concurrency int) *Aggregator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Aggregator{
		fetcher:     fetcher,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Run performs the main business logic. It fetches the organization's
// repositories (the only hard-failure path), applies the optional name
// filter, aggregates commits per repository over the trailing window,
// folds the per-repository aggregates into organization-wide sets and
// packages everything into a Report.
//
// The window is computed once, so every repository is compared against
// identical bounds. A repository whose commits cannot be read keeps its
// partial aggregate and does not affect the others.
func (a *Aggregator) Run(ctx context.Context, org string, windowDays int, wantedRepos []string) (*domain.Report, error) {
	repos, err := a.fetcher.ListRepositories(ctx, org)
	if err != nil {
		return nil, err
	}

	filtered, missing := domain.FilterByName(repos, wantedRepos)
	if len(wantedRepos) > 0 {
		a.logger.Printf("Repository filtering enabled: %d of %d repositories matched", len(filtered), len(repos))
	}
	for _, name := range missing {
		a.logger.Printf("Warning: repository %q was requested but not found in %s", name, org)
	}
	if len(wantedRepos) > 0 && len(filtered) == 0 {
		a.logger.Printf("No matching repositories found, nothing to analyze")
		members := a.fetcher.ListMembers(ctx, org)
		return domain.BuildReport(org, windowDays, members, nil, nil, nil), nil
	}
	repos = filtered

	until := time.Now().UTC()
	since := until.Add(-time.Duration(windowDays) * 24 * time.Hour)

	a.logger.Printf("Analyzing %d repositories in %s...", len(repos), org)

	// One immutable aggregate per repository, landed by index so the
	// bounded fan-out never mutates shared state.
	activities := make([]*domain.RepoActivity, len(repos))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)
	for i, repo := range repos {
		i, repo := i, repo
		eg.Go(func() error {
			a.logger.Printf("Analyzing repository: %s/%s", repo.Owner, repo.Name)
			commits, err := a.fetcher.ListCommits(egCtx, repo.Owner, repo.Name, since, until)
			if err != nil {
				a.logger.Printf("Warning: repo %s is empty or errored, keeping %d commits: %v", repo.Name, len(commits), err)
			}
			activity := domain.NewRepoActivity(repo.HTMLURL)
			for _, c := range commits {
				activity.Add(c)
			}
			activities[i] = activity
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Fold the per-repository aggregates into the global uniqueness view.
	// Only key sets are united; per-repository counts stay per repository.
	perRepo := make(map[string]*domain.RepoActivity, len(repos))
	authorNames := make(map[string]struct{})
	logins := make(map[string]struct{})
	for i, repo := range repos {
		activity := activities[i]
		perRepo[repo.Name] = activity
		for name := range activity.CommitAuthors {
			authorNames[name] = struct{}{}
		}
		for login := range activity.GitHubAuthors {
			logins[login] = struct{}{}
		}
		a.logger.Printf("  Found %d contributors and %d GitHub authors in %s (%d commits)",
			len(activity.CommitAuthors), len(activity.GitHubAuthors), repo.Name, activity.TotalCommits)
	}

	members := a.fetcher.ListMembers(ctx, org)

	a.logger.Printf("Aggregation complete.")
	return domain.BuildReport(org, windowDays, members, authorNames, logins, perRepo), nil
}
