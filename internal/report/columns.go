package report

import "fmt"

// Column describes one output column for the summary grid.
type Column struct {
	Title string `json:"title"`
	Field string `json:"field"`
	Align string `json:"hozAlign"`
}

// BuildColumns derives the column schema purely from (source, metric, period).
// It never looks at data: the same inputs always yield the same columns, even
// when no rows exist. The first column is always the bucket label.
func BuildColumns(source Source, metric Metric, period Period) []Column {
	columns := []Column{{Title: "구분", Field: "group_name", Align: "left"}}

	add := func(title, field string) {
		columns = append(columns, Column{Title: title, Field: field, Align: "right"})
	}
	wantOrder := metric == MetricOrder || metric == MetricBoth
	wantProfit := metric == MetricProfit || metric == MetricBoth

	switch source {
	case SourcePlan:
		switch period {
		case PeriodYear:
			add("계획", "plan_total")
		case PeriodQuarter:
			for q := 1; q <= 4; q++ {
				add(fmt.Sprintf("Q%d", q), fmt.Sprintf("q%d", q))
			}
		case PeriodMonth:
			for m := 1; m <= 12; m++ {
				add(fmt.Sprintf("%d월", m), fmt.Sprintf("m%02d", m))
			}
		}

	case SourceActual:
		switch period {
		case PeriodYear:
			if wantOrder {
				add("수주", "order_total")
			}
			if wantProfit {
				add("매출이익", "profit_total")
			}
		case PeriodQuarter:
			for q := 1; q <= 4; q++ {
				if wantOrder {
					add(fmt.Sprintf("Q%d 수주", q), fmt.Sprintf("q%d_order", q))
				}
				if wantProfit {
					add(fmt.Sprintf("Q%d 이익", q), fmt.Sprintf("q%d_profit", q))
				}
			}
		case PeriodMonth:
			for m := 1; m <= 12; m++ {
				if wantOrder {
					add(fmt.Sprintf("%d월 수주", m), fmt.Sprintf("m%02d_order", m))
				}
				if wantProfit {
					add(fmt.Sprintf("%d월 이익", m), fmt.Sprintf("m%02d_profit", m))
				}
			}
		}

	case SourceGap:
		// Gap always shows the full plan/actual comparison; metric does not
		// narrow it.
		switch period {
		case PeriodYear:
			add("계획", "plan_total")
			add("수주", "order_total")
			add("계획비", "ratio")
			add("매출이익", "profit_total")
		case PeriodQuarter:
			for q := 1; q <= 4; q++ {
				add(fmt.Sprintf("Q%d 계획", q), fmt.Sprintf("q%d", q))
				add(fmt.Sprintf("Q%d 수주", q), fmt.Sprintf("q%d_order", q))
				add(fmt.Sprintf("Q%d 계획비", q), fmt.Sprintf("q%d_ratio", q))
				add(fmt.Sprintf("Q%d 이익", q), fmt.Sprintf("q%d_profit", q))
			}
		case PeriodMonth:
			for m := 1; m <= 12; m++ {
				add(fmt.Sprintf("%d월 계획", m), fmt.Sprintf("m%02d", m))
				add(fmt.Sprintf("%d월 수주", m), fmt.Sprintf("m%02d_order", m))
				add(fmt.Sprintf("%d월 계획비", m), fmt.Sprintf("m%02d_ratio", m))
				add(fmt.Sprintf("%d월 이익", m), fmt.Sprintf("m%02d_profit", m))
			}
		}
	}

	return columns
}

// MetricFields lists every column field except the bucket label; the totals
// logic sums these (ratio fields excluded there and recomputed).
func MetricFields(columns []Column) []string {
	fields := make([]string, 0, len(columns))
	for _, col := range columns {
		if col.Field == "group_name" {
			continue
		}
		fields = append(fields, col.Field)
	}
	return fields
}
