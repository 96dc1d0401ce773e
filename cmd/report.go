// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/oss-insights/issue-report/internal/domain"
	"github.com/oss-insights/issue-report/internal/gateway"
	"github.com/oss-insights/issue-report/internal/render"
	"github.com/oss-insights/issue-report/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Classifies a repository's issues and outputs an aggregated report",
	Long: `Classifies the issues of a GitHub repository (or of an already-fetched
JSON file, or of a free-form issue search) into type, age, priority and
assignment buckets, and outputs the aggregated counts, percentages and age
statistics as markdown or JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		owner, _ := cmd.Flags().GetString("owner")
		repo, _ := cmd.Flags().GetString("repo")
		state, _ := cmd.Flags().GetString("state")
		limit, _ := cmd.Flags().GetInt("limit")
		query, _ := cmd.Flags().GetString("query")
		input, _ := cmd.Flags().GetString("input")
		format, _ := cmd.Flags().GetString("format")

		if format != "markdown" && format != "json" {
			fmt.Fprintf(os.Stderr, "Invalid --format %q. Use \"markdown\" or \"json\".\n", format)
			os.Exit(1)
		}
		if limit <= 0 {
			fmt.Fprintln(os.Stderr, "Error: --limit must be positive.")
			os.Exit(1)
		}

		var states []string
		switch state {
		case "open", "closed":
			states = []string{state}
		case "all":
			states = []string{"open", "closed"}
		default:
			fmt.Fprintf(os.Stderr, "Invalid --state %q. Use \"open\", \"closed\" or \"all\".\n", state)
			os.Exit(1)
		}

		// The reference instant is taken once here so the whole run, and
		// both output formats, agree on every age computation.
		now := time.Now().UTC()

		var report *domain.Report
		var title string
		var err error

		switch {
		case input != "":
			title = input
			report, err = reportFromFile(input, now, logger)
		case query != "":
			title = query
			report, err = reportFromSearch(ctx, query, limit, now, logger)
		case owner != "" && repo != "":
			title = owner + "/" + repo
			report, err = reportFromRepo(ctx, owner, repo, states, limit, now, logger)
		default:
			fmt.Fprintln(os.Stderr, "Error: provide --owner and --repo, or --query, or --input.")
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build report: %v\n", err)
			os.Exit(1)
		}

		if format == "json" {
			jsonData, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to marshal report to JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(jsonData))
			return
		}
		if err := render.Markdown(os.Stdout, title, now, report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render report: %v\n", err)
			os.Exit(1)
		}
	},
}

// reportFromFile aggregates an already-fetched JSON issue array, with no
// network access at all.
func reportFromFile(path string, now time.Time, logger *log.Logger) (*domain.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	records, err := gateway.ReadIssues(f, logger)
	if err != nil {
		return nil, err
	}
	return usecase.Aggregate(records, now), nil
}

func reportFromSearch(ctx context.Context, query string, limit int, now time.Time, logger *log.Logger) (*domain.Report, error) {
	githubGateway, err := newGateway(logger)
	if err != nil {
		return nil, err
	}
	records, err := githubGateway.SearchIssues(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return usecase.Aggregate(records, now), nil
}

func reportFromRepo(ctx context.Context, owner, repo string, states []string, limit int, now time.Time, logger *log.Logger) (*domain.Report, error) {
	githubGateway, err := newGateway(logger)
	if err != nil {
		return nil, err
	}
	reporter := usecase.NewReporter(githubGateway, logger)
	return reporter.Run(ctx, owner, repo, states, limit, now)
}

func newGateway(logger *log.Logger) (*gateway.GitHubGateway, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}
	return gateway.NewGitHubGateway(token, logger)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("owner", "o", "", "Target repository owner (org or user)")
	reportCmd.Flags().StringP("repo", "r", "", "Target repository name")
	reportCmd.Flags().String("state", "open", "Issue state to report on: open, closed or all")
	reportCmd.Flags().Int("limit", 1000, "Maximum number of issues to fetch")
	reportCmd.Flags().String("query", "", "Free-form GitHub issue search query (instead of --owner/--repo)")
	reportCmd.Flags().String("input", "", "Path to an already-fetched JSON issue array (no network access)")
	reportCmd.Flags().String("format", "markdown", "Output format: markdown or json")
}
