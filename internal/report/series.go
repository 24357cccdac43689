package report

// MonthlySeries is a 12-slot numeric series indexed by month 1..12. A missing
// month is simply zero; no rounding or currency scaling is applied anywhere.
type MonthlySeries [12]float64

// Month returns the value for month m (1..12), zero for anything out of range.
func (s MonthlySeries) Month(m int) float64 {
	if m < 1 || m > 12 {
		return 0
	}
	return s[m-1]
}

// SumAll returns the sum of all twelve months.
func (s MonthlySeries) SumAll() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

// SumQuarter returns the sum of months 3q-2..3q for q in 1..4.
func (s MonthlySeries) SumQuarter(q int) float64 {
	if q < 1 || q > 4 {
		return 0
	}
	var total float64
	for m := 3*q - 2; m <= 3*q; m++ {
		total += s[m-1]
	}
	return total
}

// SumMonths sums an arbitrary month selection; used by the declarative field
// specs so year, quarter and month aggregation share one code path.
func (s MonthlySeries) SumMonths(months []int) float64 {
	var total float64
	for _, m := range months {
		total += s.Month(m)
	}
	return total
}
