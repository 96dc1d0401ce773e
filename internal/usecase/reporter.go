package usecase

import (
	"context"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oss-insights/issue-report/internal/domain"
	"github.com/oss-insights/issue-report/internal/gateway"
)

// Reporter is the use case that turns a repository's issues into a Report.
// It orchestrates the fetching and hands the combined records to Aggregate.
type Reporter struct {
	source gateway.Source
	logger *log.Logger
}

// NewReporter creates a new Reporter instance.
func NewReporter(source gateway.Source, logger *log.Logger) *Reporter {
	return &Reporter{
		source: source,
		logger: logger,
	}
}

// Run fetches the issues for every requested state concurrently, merges the
// results and aggregates them into a single Report. The merge order does not
// matter: classification is per-record and bucket counts are plain integer
// additions. `now` is passed through to Aggregate so callers control the
// reference instant.
func (r *Reporter) Run(ctx context.Context, owner, repo string, states []string, limit int, now time.Time) (*domain.Report, error) {
	r.logger.Printf("Usecase: fetching issues for %s/%s (states: %v)...", owner, repo, states)

	recordsByState := make([][]domain.IssueRecord, len(states))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, state := range states {
		i, state := i, state
		eg.Go(func() error {
			records, err := r.source.FetchIssues(egCtx, owner, repo, state, limit)
			if err != nil {
				return err
			}
			recordsByState[i] = records
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var records []domain.IssueRecord
	for _, rs := range recordsByState {
		records = append(records, rs...)
	}
	// Stable record order keeps repeated runs byte-for-byte identical.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Number < records[j].Number
	})

	r.logger.Printf("Usecase: aggregating %d issue(s).", len(records))
	return Aggregate(records, now), nil
}
