// Package usecase contains the business logic of the application.
package usecase

import (
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/oss-insights/issue-report/internal/domain"
)

// Fixed-length day used for all age bucketing. Months and years are the
// 30/180/365-day approximations of the original report, not calendar-aware.
const day = 24 * time.Hour

// typeRules is the ordered classification table for the Type group.
// Every rule is evaluated independently, so one issue can increment
// several type buckets. The Feature/Enhancement overlap for a bare
// "enhancement" label is intentional, inherited behavior.
var typeRules = []struct {
	key   string
	match func(labels []string) bool
}{
	{domain.TypeBug, func(ls []string) bool {
		return hasLabelContaining(ls, "Type:Bug") || hasLabelContaining(ls, "bug")
	}},
	{domain.TypeFeature, func(ls []string) bool {
		return hasLabelContaining(ls, "Type:Feature") || hasLabelContaining(ls, "feature") || hasLabelContaining(ls, "enhancement")
	}},
	{domain.TypeDocumentation, func(ls []string) bool {
		return hasLabelContaining(ls, "documentation") || hasLabelContaining(ls, "docs")
	}},
	{domain.TypeQuestion, func(ls []string) bool {
		return hasLabelContaining(ls, "question")
	}},
	{domain.TypeEnhancement, func(ls []string) bool {
		return hasLabelContaining(ls, "enhancement") && !hasLabelContaining(ls, "Type:Feature")
	}},
}

// hasLabelContaining reports whether any label contains the given
// substring. Matching is case-sensitive, like the original report.
func hasLabelContaining(labels []string, substr string) bool {
	for _, l := range labels {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// ageKey buckets an issue age, first matching rule wins, newest first.
func ageKey(age time.Duration) string {
	switch {
	case age < 7*day:
		return domain.AgeLessThanWeek
	case age < 30*day:
		return domain.AgeWeekToMonth
	case age < 180*day:
		return domain.AgeOneToSixMonths
	case age < 365*day:
		return domain.AgeSixMonthsToYear
	default:
		return domain.AgeMoreThanYear
	}
}

// priorityKey buckets by priority label, first match wins, exhaustive.
func priorityKey(labels []string) string {
	switch {
	case hasLabelContaining(labels, domain.PriorityP0):
		return domain.PriorityP0
	case hasLabelContaining(labels, domain.PriorityP1):
		return domain.PriorityP1
	case hasLabelContaining(labels, domain.PriorityP2):
		return domain.PriorityP2
	default:
		return domain.PriorityNone
	}
}

// Aggregate classifies every record into the Type, AgeRange, Priority and
// Assignment buckets and returns a fresh Report. It is a pure fold over the
// input: `now` is explicit so results are deterministic, records are
// processed independently, and no state survives the call. A nil slice is
// treated as the empty sequence. Aggregate never fails; an empty input
// yields a report with Total 0 and every count and percentage 0.
func Aggregate(records []domain.IssueRecord, now time.Time) *domain.Report {
	report := &domain.Report{
		Total:      len(records),
		Type:       zeroCounts(domain.TypeKeys),
		AgeRange:   zeroCounts(domain.AgeRangeKeys),
		Priority:   zeroCounts(domain.PriorityKeys),
		Assignment: zeroCounts(domain.AssignmentKeys),
	}

	ageDays := make([]float64, 0, len(records))
	for _, r := range records {
		age := now.Sub(r.CreatedAt)
		ageDays = append(ageDays, age.Seconds()/day.Seconds())
		report.AgeRange[ageKey(age)]++
		report.Priority[priorityKey(r.Labels)]++

		if len(r.Assignees) > 0 {
			report.Assignment[domain.AssignmentAssigned]++
		} else {
			report.Assignment[domain.AssignmentUnassigned]++
		}

		matched := false
		for _, rule := range typeRules {
			if rule.match(r.Labels) {
				report.Type[rule.key]++
				matched = true
			}
		}
		if !matched {
			if len(r.Labels) > 0 {
				report.Type[domain.TypeOther]++
			} else {
				report.Type[domain.TypeUntyped]++
			}
		}
	}

	report.TypePercent = percentages(report.Type, report.Total)
	report.AgeRangePercent = percentages(report.AgeRange, report.Total)
	report.PriorityPercent = percentages(report.Priority, report.Total)
	report.AssignmentPercent = percentages(report.Assignment, report.Total)
	report.AgeSummary = summarizeAges(ageDays)

	return report
}

func zeroCounts(keys []string) map[string]int {
	counts := make(map[string]int, len(keys))
	for _, k := range keys {
		counts[k] = 0
	}
	return counts
}

// percentages derives count*100/total with truncating integer division.
// With a total of 0 every percentage is defined as 0, never a fault.
func percentages(counts map[string]int, total int) map[string]int {
	percent := make(map[string]int, len(counts))
	for key, count := range counts {
		if total == 0 {
			percent[key] = 0
			continue
		}
		percent[key] = count * 100 / total
	}
	return percent
}

// summarizeAges computes the descriptive age statistics for the report.
// The stats library rejects empty input, in which case the summary stays
// all zero.
func summarizeAges(ageDays []float64) domain.AgeSummary {
	if len(ageDays) == 0 {
		return domain.AgeSummary{}
	}
	mean, err := stats.Mean(ageDays)
	if err != nil {
		return domain.AgeSummary{}
	}
	median, err := stats.Median(ageDays)
	if err != nil {
		return domain.AgeSummary{}
	}
	p90, err := stats.Percentile(ageDays, 90)
	if err != nil {
		return domain.AgeSummary{}
	}
	return domain.AgeSummary{MeanDays: mean, MedianDays: median, P90Days: p90}
}
