// Package render turns a finished report into its output formats. The
// aggregator itself emits no formatted text; everything presentational
// lives here.
package render

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/oss-insights/issue-report/internal/domain"
)

// row is one rendered table line.
type row struct {
	Key     string
	Count   int
	Percent int
}

// reportView is the template view model. Bucket maps are flattened into
// ordered row slices so the tables render in the domain's key order.
type reportView struct {
	Title       string
	GeneratedAt string
	Total       int
	Type        []row
	AgeRange    []row
	Priority    []row
	Assignment  []row
	AgeSummary  domain.AgeSummary
}

const markdownTemplate = `# Issue Report: {{.Title}}

Generated: {{.GeneratedAt}}

Total issues: **{{.Total}}**

## Issues by Type

| Type | Count | Percentage |
| --- | ---: | ---: |
{{range .Type}}| {{.Key}} | {{.Count}} | {{.Percent}}% |
{{end}}
Type counts are not exclusive: one issue can match several type rules.

## Issues by Age

| Age | Count | Percentage |
| --- | ---: | ---: |
{{range .AgeRange}}| {{.Key}} | {{.Count}} | {{.Percent}}% |
{{end}}
## Issues by Priority

| Priority | Count | Percentage |
| --- | ---: | ---: |
{{range .Priority}}| {{.Key}} | {{.Count}} | {{.Percent}}% |
{{end}}
## Issues by Assignment

| Assignment | Count | Percentage |
| --- | ---: | ---: |
{{range .Assignment}}| {{.Key}} | {{.Count}} | {{.Percent}}% |
{{end}}
## Age Summary

- Mean age: {{printf "%.1f" .AgeSummary.MeanDays}} days
- Median age: {{printf "%.1f" .AgeSummary.MedianDays}} days
- 90th percentile age: {{printf "%.1f" .AgeSummary.P90Days}} days
`

// Markdown writes the report as a markdown document to w. The title is the
// human-readable name of the issue set, typically "owner/repo".
func Markdown(w io.Writer, title string, generatedAt time.Time, report *domain.Report) error {
	tmpl, err := template.New("report").Parse(markdownTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse report template: %w", err)
	}
	view := reportView{
		Title:       title,
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Total:       report.Total,
		Type:        rows(domain.TypeKeys, report.Type, report.TypePercent),
		AgeRange:    rows(domain.AgeRangeKeys, report.AgeRange, report.AgeRangePercent),
		Priority:    rows(domain.PriorityKeys, report.Priority, report.PriorityPercent),
		Assignment:  rows(domain.AssignmentKeys, report.Assignment, report.AssignmentPercent),
		AgeSummary:  report.AgeSummary,
	}
	if err := tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func rows(keys []string, counts, percents map[string]int) []row {
	out := make([]row, 0, len(keys))
	for _, k := range keys {
		out = append(out, row{Key: k, Count: counts[k], Percent: percents[k]})
	}
	return out
}
