// Package report implements the plan-vs-actual sales reporting aggregator.
//
// The engine reconciles two independently entered monthly series (sales plan
// and sales actual) across a chosen grouping dimension, at year, quarter or
// month granularity, and layers subtotal and grand-total rows on top.
package report

import "fmt"

// Source selects which dataset a summary reads.
type Source string

// Period selects the reporting granularity.
type Period string

// Metric narrows actual-side columns.
type Metric string

// Dimension is the axis used to bucket lines.
type Dimension string

const (
	SourcePlan   Source = "plan"
	SourceActual Source = "actual"
	SourceGap    Source = "gap"

	PeriodYear    Period = "year"
	PeriodQuarter Period = "quarter"
	PeriodMonth   Period = "month"

	MetricOrder  Metric = "order"
	MetricProfit Metric = "profit"
	MetricBoth   Metric = "both"

	DimensionOrg      Dimension = "org"
	DimensionManager  Dimension = "manager"
	DimensionField    Dimension = "field"
	DimensionService  Dimension = "service"
	DimensionCustomer Dimension = "customer"
	DimensionPipeline Dimension = "pipeline"
)

// Plan header status codes.
const (
	PlanStatusDraft     = "DRAFT"
	PlanStatusFinal     = "FINAL"
	PlanStatusCancelled = "CANCELLED"
)

// ParseSource validates a source parameter, defaulting to gap when empty.
func ParseSource(s string) (Source, error) {
	if s == "" {
		return SourceGap, nil
	}
	switch Source(s) {
	case SourcePlan, SourceActual, SourceGap:
		return Source(s), nil
	}
	return "", fmt.Errorf("invalid source %q", s)
}

// ParsePeriod validates a period parameter, defaulting to year when empty.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return PeriodYear, nil
	}
	switch Period(s) {
	case PeriodYear, PeriodQuarter, PeriodMonth:
		return Period(s), nil
	}
	return "", fmt.Errorf("invalid period %q", s)
}

// ParseMetric validates a metric parameter, defaulting to both when empty.
func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return MetricBoth, nil
	}
	switch Metric(s) {
	case MetricOrder, MetricProfit, MetricBoth:
		return Metric(s), nil
	}
	return "", fmt.Errorf("invalid metric %q", s)
}

// ParseDimension validates a dimension parameter, defaulting to service when empty.
func ParseDimension(s string) (Dimension, error) {
	if s == "" {
		return DimensionService, nil
	}
	switch Dimension(s) {
	case DimensionOrg, DimensionManager, DimensionField, DimensionService, DimensionCustomer, DimensionPipeline:
		return Dimension(s), nil
	}
	return "", fmt.Errorf("invalid dimension %q", s)
}

// Row is one result row. Metric fields are keyed by the field names from the
// column schema; ratio fields hold nil when the plan denominator is zero.
type Row map[string]any

// Row type markers for subtotal and grand-total rows. Detail rows carry no
// row_type key.
const (
	RowTypeSubtotal   = "subtotal"
	RowTypeGrandTotal = "grand_total"
)

// Display labels shared with the original UI contract.
const (
	LabelAllTargets = "전체"
	LabelSubtotal   = "합계"
	LabelGrandTotal = "총합계"
)

// Target partitions a summary into an independent sub-report.
type Target struct {
	Type string  `json:"type"`
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// Result is the summary endpoint payload.
type Result struct {
	Columns []Column `json:"columns"`
	Items   []Row    `json:"items"`
	Targets []Target `json:"targets"`
}

// Request carries every summary parameter after validation.
type Request struct {
	Source    Source
	Year      int
	Dimension Dimension
	Period    Period
	Metric    Metric

	PlanID      *int64
	PlanVersion string
	PlanStatus  string

	OrgIDs     []string
	ManagerIDs []string
}

// PlanSelector narrows plan-header selection for a year.
type PlanSelector struct {
	PlanID  *int64
	Version string
	Status  string
}

// Filter restricts both plan and actual aggregates to one org or manager so
// gap comparisons stay consistent.
type Filter struct {
	OrgID     string
	ManagerID string
}

// AggRow is one grouped aggregate produced by a data source, before the gap
// merge and total rows are applied.
type AggRow struct {
	GroupName string
	Values    map[string]float64
}
