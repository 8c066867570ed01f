package cmd

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// envConfig is the environment-driven configuration. Command-line flags
// take precedence over every value here.
type envConfig struct {
	// GitHubToken authenticates every API request.
	GitHubToken string `envconfig:"GITHUB_TOKEN"`

	// PersonalAccessToken is honored as a fallback alias for GitHubToken.
	PersonalAccessToken string `envconfig:"GITHUB_PERSONAL_ACCESS_TOKEN"`

	// OrgName is the organization to analyze.
	OrgName string `envconfig:"GITHUB_ORG_NAME"`

	// NumberOfDays is the trailing window length.
	NumberOfDays int `envconfig:"NUMBER_OF_DAYS" default:"30"`

	// InterestingRepos optionally restricts analysis to a comma-separated
	// list of repository names.
	InterestingRepos string `envconfig:"INTERESTING_REPOS"`

	// OutputDir is where the JSON report artifact is written.
	OutputDir string `envconfig:"OUTPUT_DIR" default:"outputs"`
}

func loadEnvConfig() (*envConfig, error) {
	var cfg envConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// token returns the credential to use, preferring GITHUB_TOKEN.
func (c *envConfig) token() string {
	if c.GitHubToken != "" {
		return c.GitHubToken
	}
	return c.PersonalAccessToken
}

// splitRepoList parses a comma-separated repository list, trimming
// whitespace and dropping empty entries.
func splitRepoList(s string) []string {
	var repos []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			repos = append(repos, name)
		}
	}
	return repos
}
