// Package gateway provides the issue sources for the application,
// abstracting away the GitHub REST and GraphQL clients and the offline
// JSON input.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/oss-insights/issue-report/internal/domain"
)

// Source defines the behavior of an issue source. Implementations must
// return finite, fully materialized record slices; the aggregator never
// streams.
type Source interface {
	FetchIssues(ctx context.Context, owner, repo, state string, limit int) ([]domain.IssueRecord, error)
}

// Searcher is the optional free-form search surface backed by the GraphQL
// API, used when the caller supplies a raw search query instead of an
// owner/repo pair.
type Searcher interface {
	SearchIssues(ctx context.Context, query string, limit int) ([]domain.IssueRecord, error)
}

// GitHubGateway is the concrete GitHub-backed implementation of Source and
// Searcher.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// searchIssuesQuery fetches issues matching a free-form search query. The
// search endpoint interleaves pull requests, so the Issue fragment stays
// empty for those nodes and they are skipped by __typename.
type searchIssuesQuery struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Edges []struct {
			Node struct {
				Typename string `graphql:"__typename"`
				Issue    struct {
					Number    int
					Title     string
					CreatedAt githubv4.DateTime
					Labels    struct {
						Nodes []struct {
							Name string
						}
					} `graphql:"labels(first: 50)"`
					Assignees struct {
						Nodes []struct {
							Login string
						}
					} `graphql:"assignees(first: 20)"`
				} `graphql:"... on Issue"`
			}
		}
	} `graphql:"search(query: $query, type: ISSUE, first: 100, after: $cursor)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (*GitHubGateway, error) {
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
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchIssues lists the repository's issues in the given state via the REST
// API, following pagination until the limit is reached. Pull requests show
// up in the issues listing and are filtered out.
func (g *GitHubGateway) FetchIssues(ctx context.Context, owner, repo, state string, limit int) ([]domain.IssueRecord, error) {
	g.logger.Printf("Fetching %s issues for %s/%s using REST API...", state, owner, repo)
	opts := &github.IssueListByRepoOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var records []domain.IssueRecord
	for {
		issues, resp, err := g.restClient.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues with REST API: %w", err)
		}
		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			records = append(records, issueToRecord(issue))
			if len(records) >= limit {
				g.logger.Printf("Reached issue limit of %d, stopping pagination.", limit)
				return records, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of issues...")
	}
	g.logger.Printf("Completed fetching issues, %d record(s).", len(records))
	return records, nil
}

// SearchIssues fetches issues matching a free-form GitHub search query via
// the GraphQL API, following cursors until the limit is reached.
func (g *GitHubGateway) SearchIssues(ctx context.Context, query string, limit int) ([]domain.IssueRecord, error) {
	g.logger.Printf("Searching issues using GraphQL API: %s", query)
	variables := map[string]interface{}{
		"query":  githubv4.String(query),
		"cursor": (*githubv4.String)(nil),
	}
	var records []domain.IssueRecord
	for {
		var q searchIssuesQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL search query: %w", err)
		}
		for _, edge := range q.Search.Edges {
			if edge.Node.Typename != "Issue" {
				continue
			}
			node := edge.Node.Issue
			record := domain.IssueRecord{
				Number:    node.Number,
				Title:     node.Title,
				CreatedAt: node.CreatedAt.Time,
			}
			for _, l := range node.Labels.Nodes {
				record.Labels = append(record.Labels, l.Name)
			}
			for _, a := range node.Assignees.Nodes {
				record.Assignees = append(record.Assignees, a.Login)
			}
			records = append(records, record)
			if len(records) >= limit {
				g.logger.Printf("Reached issue limit of %d, stopping search.", limit)
				return records, nil
			}
		}
		if !q.Search.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Search.PageInfo.EndCursor)
		g.logger.Println("  Fetching next page of search results...")
	}
	g.logger.Printf("Completed issue search, %d record(s).", len(records))
	return records, nil
}

func issueToRecord(issue *github.Issue) domain.IssueRecord {
	record := domain.IssueRecord{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		CreatedAt: issue.GetCreatedAt().Time,
	}
	for _, l := range issue.Labels {
		record.Labels = append(record.Labels, l.GetName())
	}
	for _, a := range issue.Assignees {
		record.Assignees = append(record.Assignees, a.GetLogin())
	}
	return record
}
