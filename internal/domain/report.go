package domain

// Bucket keys for the four classification groups. Renderers iterate these
// slices so table rows always come out in the same order.
const (
	TypeBug           = "Bug"
	TypeFeature       = "Feature"
	TypeDocumentation = "Documentation"
	TypeQuestion      = "Question"
	TypeEnhancement   = "Enhancement"
	TypeOther         = "Other"
	TypeUntyped       = "Untyped"

	AgeLessThanWeek    = "Less than 1 week"
	AgeWeekToMonth     = "1 week to 1 month"
	AgeOneToSixMonths  = "1 to 6 months"
	AgeSixMonthsToYear = "6 months to 1 year"
	AgeMoreThanYear    = "More than 1 year"

	PriorityP0   = "Priority:0"
	PriorityP1   = "Priority:1"
	PriorityP2   = "Priority:2"
	PriorityNone = "No Priority"

	AssignmentAssigned   = "Assigned"
	AssignmentUnassigned = "Unassigned"
)

// TypeKeys lists the Type bucket keys in report order. Unlike the other
// groups, Type membership is not exclusive: one issue may count into
// several of the first five keys. Other/Untyped catch everything else.
var TypeKeys = []string{
	TypeBug,
	TypeFeature,
	TypeDocumentation,
	TypeQuestion,
	TypeEnhancement,
	TypeOther,
	TypeUntyped,
}

// AgeRangeKeys lists the AgeRange bucket keys from newest to oldest.
var AgeRangeKeys = []string{
	AgeLessThanWeek,
	AgeWeekToMonth,
	AgeOneToSixMonths,
	AgeSixMonthsToYear,
	AgeMoreThanYear,
}

// PriorityKeys lists the Priority bucket keys from highest to lowest.
var PriorityKeys = []string{
	PriorityP0,
	PriorityP1,
	PriorityP2,
	PriorityNone,
}

// AssignmentKeys lists the Assignment bucket keys.
var AssignmentKeys = []string{
	AssignmentAssigned,
	AssignmentUnassigned,
}

// AgeSummary holds descriptive statistics over the per-issue ages, in days.
// All fields are zero when the report covers no issues.
type AgeSummary struct {
	MeanDays   float64 `json:"mean_days"`
	MedianDays float64 `json:"median_days"`
	P90Days    float64 `json:"p90_days"`
}

// Report is an immutable snapshot produced by one aggregation run.
// AgeRange, Priority and Assignment each partition the input, so their
// counts sum to Total. Type counts may exceed Total because an issue can
// match several type rules at once.
type Report struct {
	Total int `json:"total"`

	Type       map[string]int `json:"type"`
	AgeRange   map[string]int `json:"age_range"`
	Priority   map[string]int `json:"priority"`
	Assignment map[string]int `json:"assignment"`

	// Percentages are count*100/total with truncating integer division,
	// and all zero when Total is zero.
	TypePercent       map[string]int `json:"type_percent"`
	AgeRangePercent   map[string]int `json:"age_range_percent"`
	PriorityPercent   map[string]int `json:"priority_percent"`
	AssignmentPercent map[string]int `json:"assignment_percent"`

	AgeSummary AgeSummary `json:"age_summary"`
}
