package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/recent-contributors/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	gateway := &GitHubGateway{
		client:   restClient,
		logger:   log.New(io.Discard, "", 0),
		pageSize: 30,
	}

	return gateway, server
}

func TestFetchAllPages(t *testing.T) {
	t.Run("terminates exactly on the first empty page", func(t *testing.T) {
		pages := [][]int{make([]int, 30), make([]int, 30), {}}
		var calls int

		items, err := fetchAllPages(func(page int) ([]int, error) {
			calls++
			require.LessOrEqual(t, page, len(pages), "fetched past the empty page")
			return pages[page-1], nil
		})

		assert.NoError(t, err)
		assert.Len(t, items, 60)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns collected items alongside a page error", func(t *testing.T) {
		items, err := fetchAllPages(func(page int) ([]int, error) {
			if page == 2 {
				return nil, errors.New("boom")
			}
			return make([]int, 30), nil
		})

		assert.Error(t, err)
		assert.Len(t, items, 30)
	})
}

func TestGitHubGateway_ListRepositories(t *testing.T) {
	testCases := []struct {
		name          string
		handlerFunc   func(w http.ResponseWriter, r *http.Request)
		expectedRepos []domain.Repository
		checkErr      func(t *testing.T, err error)
	}{
		{
			name: "happy path - pages until an empty page",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.Path, "/orgs/test-org/repos")
				switch r.URL.Query().Get("page") {
				case "1":
					fmt.Fprint(w, `[
						{"name": "repo-a", "owner": {"login": "test-org"}, "html_url": "https://github.com/test-org/repo-a"},
						{"name": "repo-b", "owner": {"login": "test-org"}, "html_url": "https://github.com/test-org/repo-b"}
					]`)
				default:
					fmt.Fprint(w, `[]`)
				}
			},
			expectedRepos: []domain.Repository{
				{Name: "repo-a", Owner: "test-org", HTMLURL: "https://github.com/test-org/repo-a"},
				{Name: "repo-b", Owner: "test-org", HTMLURL: "https://github.com/test-org/repo-b"},
			},
		},
		{
			name: "403 with rate limit message becomes RateLimitError",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message": "API rate limit exceeded for user ID 1."}`)
			},
			checkErr: func(t *testing.T, err error) {
				var rateErr *RateLimitError
				require.ErrorAs(t, err, &rateErr)
				assert.Contains(t, rateErr.Message, "rate limit exceeded")
			},
		},
		{
			name: "403 with exhausted rate limit headers becomes RateLimitError",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Limit", "60")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", "1700000000")
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message": "API rate limit exceeded for user ID 1."}`)
			},
			checkErr: func(t *testing.T, err error) {
				var rateErr *RateLimitError
				require.ErrorAs(t, err, &rateErr)
			},
		},
		{
			name: "other 403 becomes AccessDeniedError",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message": "Must have admin rights to Repository."}`)
			},
			checkErr: func(t *testing.T, err error) {
				var deniedErr *AccessDeniedError
				require.ErrorAs(t, err, &deniedErr)
				assert.Equal(t, "test-org", deniedErr.Org)
				assert.Contains(t, deniedErr.Error(), "test-org")
				assert.Contains(t, deniedErr.Error(), "invalid or expired")
			},
		},
		{
			name: "other non-2xx becomes RequestError with the status code",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
			},
			checkErr: func(t *testing.T, err error) {
				var reqErr *RequestError
				require.ErrorAs(t, err, &reqErr)
				assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
				assert.Equal(t, "test-org", reqErr.Org)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			repos, err := gateway.ListRepositories(context.Background(), "test-org")

			if tc.checkErr != nil {
				tc.checkErr(t, err)
				assert.Nil(t, repos)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedRepos, repos)
			}
		})
	}
}

func TestGitHubGateway_ListMembers(t *testing.T) {
	t.Run("collects member logins across pages", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/orgs/test-org/members")
			switch r.URL.Query().Get("page") {
			case "1":
				fmt.Fprint(w, `[{"login": "alice"}, {"login": "bob"}]`)
			default:
				fmt.Fprint(w, `[]`)
			}
		}
		gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		members := gateway.ListMembers(context.Background(), "test-org")

		assert.Equal(t, map[string]struct{}{"alice": {}, "bob": {}}, members)
	})

	t.Run("a failing page degrades to the members already collected", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") != "1" {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
				return
			}
			fmt.Fprint(w, `[
				{"login": "m1"}, {"login": "m2"}, {"login": "m3"}, {"login": "m4"}, {"login": "m5"},
				{"login": "m6"}, {"login": "m7"}, {"login": "m8"}, {"login": "m9"}, {"login": "m10"}
			]`)
		}
		gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		members := gateway.ListMembers(context.Background(), "test-org")

		assert.Len(t, members, 10)
		assert.Contains(t, members, "m10")
	})
}

func TestGitHubGateway_ListCommits(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("extracts both identity axes and tolerates unlinked commits", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/repos/test-org/repo-a/commits")
			assert.NotEmpty(t, r.URL.Query().Get("since"))
			assert.NotEmpty(t, r.URL.Query().Get("until"))
			switch r.URL.Query().Get("page") {
			case "1":
				fmt.Fprint(w, `[
					{"commit": {"author": {"name": "Jane Doe"}}, "author": {"login": "jane"}},
					{"commit": {"author": {"name": "No Account"}}, "author": null}
				]`)
			default:
				fmt.Fprint(w, `[]`)
			}
		}
		gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		commits, err := gateway.ListCommits(context.Background(), "test-org", "repo-a", since, until)

		assert.NoError(t, err)
		assert.Equal(t, []domain.Commit{
			{AuthorName: "Jane Doe", Login: "jane"},
			{AuthorName: "No Account", Login: ""},
		}, commits)
	})

	t.Run("a failing page returns the commits already collected with the error", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") != "1" {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
				return
			}
			fmt.Fprint(w, `[{"commit": {"author": {"name": "Jane Doe"}}, "author": {"login": "jane"}}]`)
		}
		gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		commits, err := gateway.ListCommits(context.Background(), "test-org", "repo-a", since, until)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "test-org/repo-a")
		assert.Equal(t, []domain.Commit{{AuthorName: "Jane Doe", Login: "jane"}}, commits)
	})
}
