package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oss-insights/issue-report/internal/domain"
	"github.com/oss-insights/issue-report/internal/usecase"
)

func TestMarkdown(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	records := []domain.IssueRecord{
		{Number: 1, Title: "crash", CreatedAt: now.Add(-2 * 24 * time.Hour), Labels: []string{"Type:Bug"}},
		{Number: 2, Title: "idea", CreatedAt: now.Add(-400 * 24 * time.Hour), Labels: []string{"enhancement"}, Assignees: []string{"alice"}},
	}
	report := usecase.Aggregate(records, now)

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, "any-owner/any-repo", now, report))
	out := buf.String()

	assert.Contains(t, out, "# Issue Report: any-owner/any-repo")
	assert.Contains(t, out, "Generated: 2026-01-15T12:00:00Z")
	assert.Contains(t, out, "Total issues: **2**")

	// One row per bucket key, in the domain's declared order.
	assert.Contains(t, out, "| Bug | 1 | 50% |")
	assert.Contains(t, out, "| Feature | 1 | 50% |")
	assert.Contains(t, out, "| Enhancement | 1 | 50% |")
	assert.Contains(t, out, "| Less than 1 week | 1 | 50% |")
	assert.Contains(t, out, "| More than 1 year | 1 | 50% |")
	assert.Contains(t, out, "| No Priority | 2 | 100% |")
	assert.Contains(t, out, "| Assigned | 1 | 50% |")
	assert.Contains(t, out, "| Unassigned | 1 | 50% |")

	assert.Contains(t, out, "- Mean age: 201.0 days")
	assert.Contains(t, out, "- Median age: 201.0 days")
}

func TestMarkdown_EmptyReport(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	report := usecase.Aggregate(nil, now)

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, "any-owner/any-repo", now, report))
	out := buf.String()

	assert.Contains(t, out, "Total issues: **0**")
	assert.Contains(t, out, "| Untyped | 0 | 0% |")
	assert.Contains(t, out, "- Mean age: 0.0 days")
}
