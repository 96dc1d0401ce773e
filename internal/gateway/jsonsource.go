package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/oss-insights/issue-report/internal/domain"
)

// rawIssue is the wire shape of one issue in a pre-fetched JSON array, the
// same shape `gh issue list --json number,title,createdAt,labels,assignees`
// produces. Timestamps stay strings here so a bad value cannot fail the
// whole decode.
type rawIssue struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	Labels    []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Assignees []struct {
		Login string `json:"login"`
	} `json:"assignees"`
}

// ReadIssues decodes a pre-fetched JSON issue array into domain records.
// A record with an unparseable creation timestamp is kept, not dropped: it
// falls back to the epoch-zero instant (so it lands in the oldest age
// bucket) and the data-quality problem is logged as a warning.
func ReadIssues(r io.Reader, logger *log.Logger) ([]domain.IssueRecord, error) {
	var raw []rawIssue
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode issue JSON: %w", err)
	}

	records := make([]domain.IssueRecord, 0, len(raw))
	for _, ri := range raw {
		createdAt, err := time.Parse(time.RFC3339, ri.CreatedAt)
		if err != nil {
			logger.Printf("Warning: issue #%d has unparseable createdAt %q, falling back to epoch zero.", ri.Number, ri.CreatedAt)
			createdAt = time.Unix(0, 0).UTC()
		}
		record := domain.IssueRecord{
			Number:    ri.Number,
			Title:     ri.Title,
			CreatedAt: createdAt,
		}
		for _, l := range ri.Labels {
			record.Labels = append(record.Labels, l.Name)
		}
		for _, a := range ri.Assignees {
			record.Assignees = append(record.Assignees, a.Login)
		}
		records = append(records, record)
	}
	return records, nil
}
