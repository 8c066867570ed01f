package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/recent-contributors/internal/gateway"
	"github.com/naka-gawa/recent-contributors/internal/output"
	"github.com/naka-gawa/recent-contributors/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregates recent commit contributors and writes a JSON report",
	Long: `Aggregates commit activity across the organization's repositories over the
trailing window, cross-references commit logins against the membership
roster, writes the JSON report artifact and prints a summary.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		cfg, err := loadEnvConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load environment configuration: %v\n", err)
			os.Exit(1)
		}

		// Flags win over environment values.
		org, _ := cmd.Flags().GetString("org")
		if org == "" {
			org = cfg.OrgName
		}
		days, _ := cmd.Flags().GetInt("days")
		if !cmd.Flags().Changed("days") && cfg.NumberOfDays > 0 {
			days = cfg.NumberOfDays
		}
		repoList, _ := cmd.Flags().GetStringSlice("repos")
		if len(repoList) == 0 {
			repoList = splitRepoList(cfg.InterestingRepos)
		}
		outputDir, _ := cmd.Flags().GetString("output-dir")
		if !cmd.Flags().Changed("output-dir") && cfg.OutputDir != "" {
			outputDir = cfg.OutputDir
		}
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		token := cfg.token()
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}
		if org == "" {
			fmt.Fprintln(os.Stderr, "Error: no organization given (use --org or GITHUB_ORG_NAME).")
			os.Exit(1)
		}
		if days <= 0 {
			fmt.Fprintf(os.Stderr, "Error: the window must be a positive number of days, got %d.\n", days)
			os.Exit(1)
		}

		// Inject dependencies and run the aggregation pipeline.
		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(githubGateway, logger, concurrency)

		report, err := aggregator.Run(ctx, org, days, repoList)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate contributors: %v\n", err)
			os.Exit(1)
		}

		path, err := output.Write(report, outputDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Output saved to: %s\n", path)
		fmt.Printf("Total commit authors in the last %d days: %d\n", days, len(report.CommitAuthors))
		fmt.Printf("Total members in %s: %d\n", org, len(report.OrgMembers))
		fmt.Printf("Total unique contributors from %s in the last %d days: %d\n", org, days, len(report.CommittingMembers))
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("org", "o", "", "Target GitHub organization name (or GITHUB_ORG_NAME)")
	reportCmd.Flags().IntP("days", "d", 30, "Trailing window length in days (or NUMBER_OF_DAYS)")
	reportCmd.Flags().StringSliceP("repos", "r", nil, "Restrict analysis to these repository names (or INTERESTING_REPOS)")
	reportCmd.Flags().String("output-dir", "outputs", "Directory for the JSON report artifact (or OUTPUT_DIR)")
	reportCmd.Flags().Int("concurrency", 1, "Number of repositories analyzed in parallel")
}
