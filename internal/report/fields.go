package report

import "fmt"

// FieldKind identifies which monthly column family a field sums over.
type FieldKind int

const (
	KindPlan FieldKind = iota
	KindOrder
	KindProfit
)

// FieldSpec maps one output metric field to its source months. The specs are
// the single source of truth: the SQL repository compiles GROUP BY queries
// from them, the in-memory aggregator reduces series with them, and the
// subtotal logic derives its field lists from them.
type FieldSpec struct {
	Name   string
	Kind   FieldKind
	Months []int
}

// RatioSpec names one attainment-ratio field and the plan/order fields it is
// computed from.
type RatioSpec struct {
	Name  string
	Plan  string
	Order string
}

var (
	allMonths = monthRange(1, 12)
	quarters  = [4][]int{monthRange(1, 3), monthRange(4, 6), monthRange(7, 9), monthRange(10, 12)}
)

func monthRange(from, to int) []int {
	months := make([]int, 0, to-from+1)
	for m := from; m <= to; m++ {
		months = append(months, m)
	}
	return months
}

// PlanFields returns the plan-side field specs for a period.
func PlanFields(period Period) []FieldSpec {
	switch period {
	case PeriodYear:
		return []FieldSpec{{Name: "plan_total", Kind: KindPlan, Months: allMonths}}
	case PeriodQuarter:
		specs := make([]FieldSpec, 0, 4)
		for q := 0; q < 4; q++ {
			specs = append(specs, FieldSpec{Name: fmt.Sprintf("q%d", q+1), Kind: KindPlan, Months: quarters[q]})
		}
		return specs
	case PeriodMonth:
		specs := make([]FieldSpec, 0, 12)
		for m := 1; m <= 12; m++ {
			specs = append(specs, FieldSpec{Name: fmt.Sprintf("m%02d", m), Kind: KindPlan, Months: []int{m}})
		}
		return specs
	}
	return nil
}

// ActualFields returns the actual-side field specs for a period, narrowed by
// metric. Order columns precede profit columns within each bucket.
func ActualFields(period Period, metric Metric) []FieldSpec {
	wantOrder := metric == MetricOrder || metric == MetricBoth
	wantProfit := metric == MetricProfit || metric == MetricBoth

	var specs []FieldSpec
	switch period {
	case PeriodYear:
		if wantOrder {
			specs = append(specs, FieldSpec{Name: "order_total", Kind: KindOrder, Months: allMonths})
		}
		if wantProfit {
			specs = append(specs, FieldSpec{Name: "profit_total", Kind: KindProfit, Months: allMonths})
		}
	case PeriodQuarter:
		for q := 0; q < 4; q++ {
			if wantOrder {
				specs = append(specs, FieldSpec{Name: fmt.Sprintf("q%d_order", q+1), Kind: KindOrder, Months: quarters[q]})
			}
		}
		for q := 0; q < 4; q++ {
			if wantProfit {
				specs = append(specs, FieldSpec{Name: fmt.Sprintf("q%d_profit", q+1), Kind: KindProfit, Months: quarters[q]})
			}
		}
	case PeriodMonth:
		for m := 1; m <= 12; m++ {
			if wantOrder {
				specs = append(specs, FieldSpec{Name: fmt.Sprintf("m%02d_order", m), Kind: KindOrder, Months: []int{m}})
			}
			if wantProfit {
				specs = append(specs, FieldSpec{Name: fmt.Sprintf("m%02d_profit", m), Kind: KindProfit, Months: []int{m}})
			}
		}
	}
	return specs
}

// RatioSpecs returns the attainment-ratio fields for a period. Gap results
// carry one ratio per plan bucket: order over plan, nil when plan is zero.
func RatioSpecs(period Period) []RatioSpec {
	switch period {
	case PeriodYear:
		return []RatioSpec{{Name: "ratio", Plan: "plan_total", Order: "order_total"}}
	case PeriodQuarter:
		specs := make([]RatioSpec, 0, 4)
		for q := 1; q <= 4; q++ {
			specs = append(specs, RatioSpec{
				Name:  fmt.Sprintf("q%d_ratio", q),
				Plan:  fmt.Sprintf("q%d", q),
				Order: fmt.Sprintf("q%d_order", q),
			})
		}
		return specs
	case PeriodMonth:
		specs := make([]RatioSpec, 0, 12)
		for m := 1; m <= 12; m++ {
			specs = append(specs, RatioSpec{
				Name:  fmt.Sprintf("m%02d_ratio", m),
				Plan:  fmt.Sprintf("m%02d", m),
				Order: fmt.Sprintf("m%02d_order", m),
			})
		}
		return specs
	}
	return nil
}
