package report

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// LineDims carries the identifying and dimension columns shared by plan and
// actual lines: the snapshot names frozen at entry time plus the live
// master-data names joined at read time.
type LineDims struct {
	PipelineID string
	OrgID      string
	ManagerID  string

	OrgSnapshot      string
	OrgLive          string
	ManagerSnapshot  string
	ManagerLive      string
	FieldSnapshot    string
	FieldLive        string
	ServiceSnapshot  string
	ServiceLive      string
	CustomerSnapshot string
	CustomerLive     string
}

// Label resolves the bucket label for one dimension. Pipeline lines group by
// their raw id; everything else goes through the snapshot/live fallback.
func (d LineDims) Label(dim Dimension) string {
	switch dim {
	case DimensionOrg:
		return ResolveLabel(d.OrgSnapshot, d.OrgLive)
	case DimensionManager:
		return ResolveLabel(d.ManagerSnapshot, d.ManagerLive)
	case DimensionField:
		return ResolveLabel(d.FieldSnapshot, d.FieldLive)
	case DimensionService:
		return ResolveLabel(d.ServiceSnapshot, d.ServiceLive)
	case DimensionCustomer:
		return ResolveLabel(d.CustomerSnapshot, d.CustomerLive)
	case DimensionPipeline:
		return d.PipelineID
	}
	return "-"
}

// Matches applies the optional org/manager pre-filter.
func (d LineDims) Matches(f Filter) bool {
	if f.OrgID != "" && d.OrgID != f.OrgID {
		return false
	}
	if f.ManagerID != "" && d.ManagerID != f.ManagerID {
		return false
	}
	return true
}

// PlanLine is one (plan, pipeline) row with its twelve monthly plan amounts.
type PlanLine struct {
	LineDims
	Months MonthlySeries
}

// ActualLine is one (year, pipeline) row with monthly order and profit values.
type ActualLine struct {
	LineDims
	Order  MonthlySeries
	Profit MonthlySeries
}

// AggregatePlanLines groups plan lines by the resolved dimension label and
// sums the declarative field set for the period. These are the reference
// aggregation semantics; the SQL repository compiles the same field specs
// into GROUP BY queries.
func AggregatePlanLines(lines []PlanLine, dim Dimension, period Period, f Filter) []AggRow {
	specs := PlanFields(period)
	buckets := make(map[string]map[string]float64)
	for _, line := range lines {
		if !line.Matches(f) {
			continue
		}
		label := line.Label(dim)
		values, ok := buckets[label]
		if !ok {
			values = make(map[string]float64, len(specs))
			buckets[label] = values
		}
		for _, spec := range specs {
			values[spec.Name] += line.Months.SumMonths(spec.Months)
		}
	}
	return sortedAggRows(buckets)
}

// AggregateActualLines groups actual lines by the resolved dimension label
// and sums the order/profit field set for the period.
func AggregateActualLines(lines []ActualLine, dim Dimension, period Period, metric Metric, f Filter) []AggRow {
	specs := ActualFields(period, metric)
	buckets := make(map[string]map[string]float64)
	for _, line := range lines {
		if !line.Matches(f) {
			continue
		}
		label := line.Label(dim)
		values, ok := buckets[label]
		if !ok {
			values = make(map[string]float64, len(specs))
			buckets[label] = values
		}
		for _, spec := range specs {
			series := line.Order
			if spec.Kind == KindProfit {
				series = line.Profit
			}
			values[spec.Name] += series.SumMonths(spec.Months)
		}
	}
	return sortedAggRows(buckets)
}

// labelCollator orders bucket labels the way the database collation does for
// the mixed Korean/ASCII labels this data carries.
var labelCollator = collate.New(language.Korean)

func sortedAggRows(buckets map[string]map[string]float64) []AggRow {
	rows := make([]AggRow, 0, len(buckets))
	for label, values := range buckets {
		rows = append(rows, AggRow{GroupName: label, Values: values})
	}
	sort.Slice(rows, func(i, j int) bool {
		return labelCollator.CompareString(rows[i].GroupName, rows[j].GroupName) < 0
	})
	return rows
}
