package gateway

import "fmt"

// RateLimitError reports that GitHub refused a request because the API
// rate limit is exhausted. It carries the platform's own message and is
// fatal for the run.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded, please wait before trying again: %s", e.Message)
}

// AccessDeniedError reports a 403 that is not a rate-limit condition.
// The exact cause cannot be told apart from the response alone, so the
// message enumerates the likely ones.
type AccessDeniedError struct {
	Org     string
	Message string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf(
		"access denied (403) when fetching repositories for organization %s: %s "+
			"(possible causes: the token is invalid or expired, the token lacks the 'repo' or 'public_repo' scope, "+
			"the organization name %q is incorrect, or the token has no access to this organization)",
		e.Org, e.Message, e.Org,
	)
}

// RequestError reports any other non-2xx response from the repository
// listing endpoint.
type RequestError struct {
	Org        string
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("error fetching repositories for organization %s: status code %d", e.Org, e.StatusCode)
}
