package report

import "strings"

// MergeGap outer-joins plan and actual aggregates by bucket label and adds
// attainment-ratio fields. Every label present in either input produces one
// row; a missing side stays absent rather than being zero-filled, so partial
// coverage surfaces as nulls in the payload. Plan-side ordering is kept, with
// actual-only buckets appended in their own order.
func MergeGap(planRows, actualRows []AggRow, period Period) []Row {
	merged := make(map[string]Row, len(planRows)+len(actualRows))
	order := make([]string, 0, len(planRows)+len(actualRows))

	for _, agg := range planRows {
		row := Row{"group_name": agg.GroupName}
		for field, v := range agg.Values {
			row[field] = v
		}
		merged[agg.GroupName] = row
		order = append(order, agg.GroupName)
	}
	for _, agg := range actualRows {
		row, ok := merged[agg.GroupName]
		if !ok {
			row = Row{"group_name": agg.GroupName}
			merged[agg.GroupName] = row
			order = append(order, agg.GroupName)
		}
		for field, v := range agg.Values {
			row[field] = v
		}
	}

	results := make([]Row, 0, len(order))
	for _, label := range order {
		row := merged[label]
		applyRatios(row, period)
		results = append(results, row)
	}
	return results
}

// applyRatios writes order/plan ratio fields onto a row, nil whenever the
// plan denominator is zero or absent.
func applyRatios(row Row, period Period) {
	for _, spec := range RatioSpecs(period) {
		planVal := FieldValue(row, spec.Plan)
		if planVal == 0 {
			row[spec.Name] = nil
			continue
		}
		row[spec.Name] = FieldValue(row, spec.Order) / planVal
	}
}

// FieldValue reads a numeric field from a row, treating absent or null as zero.
func FieldValue(row Row, field string) float64 {
	v, ok := row[field]
	if !ok || v == nil {
		return 0
	}
	f, _ := v.(float64)
	return f
}

// RowFromAgg converts a single-source aggregate into a result row.
func RowFromAgg(agg AggRow) Row {
	row := Row{"group_name": agg.GroupName}
	for field, v := range agg.Values {
		row[field] = v
	}
	return row
}

func isRatioField(field string) bool {
	return strings.HasSuffix(field, "ratio")
}

// SumRows arithmetically sums the given metric fields across rows and, when
// ratio fields are requested, recomputes each ratio from the summed plan and
// order values. Ratios are never summed or averaged directly.
func SumRows(rows []Row, fields []string, period Period) Row {
	totals := make(Row, len(fields))
	hasRatio := false
	for _, field := range fields {
		if isRatioField(field) {
			hasRatio = true
			continue
		}
		totals[field] = 0.0
	}

	for _, row := range rows {
		for _, field := range fields {
			if isRatioField(field) {
				continue
			}
			totals[field] = FieldValue(totals, field) + FieldValue(row, field)
		}
	}

	if hasRatio {
		applyRatios(totals, period)
	}
	return totals
}
