package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLabel(t *testing.T) {
	assert.Equal(t, "스냅샷", ResolveLabel("스냅샷", "현재"))
	assert.Equal(t, "현재", ResolveLabel("", "현재"))
	assert.Equal(t, "-", ResolveLabel("", ""))
}

func TestLineDimsLabel(t *testing.T) {
	d := LineDims{
		PipelineID:      "PL-001",
		OrgSnapshot:     "영업1팀",
		OrgLive:         "영업본부",
		ManagerLive:     "김담당",
		ServiceSnapshot: "SI",
	}

	assert.Equal(t, "영업1팀", d.Label(DimensionOrg))
	assert.Equal(t, "김담당", d.Label(DimensionManager))
	assert.Equal(t, "SI", d.Label(DimensionService))
	assert.Equal(t, "-", d.Label(DimensionField))
	assert.Equal(t, "PL-001", d.Label(DimensionPipeline))
}

func TestLineDimsMatches(t *testing.T) {
	d := LineDims{OrgID: "10", ManagerID: "u1"}

	assert.True(t, d.Matches(Filter{}))
	assert.True(t, d.Matches(Filter{OrgID: "10"}))
	assert.False(t, d.Matches(Filter{OrgID: "20"}))
	assert.True(t, d.Matches(Filter{OrgID: "10", ManagerID: "u1"}))
	assert.False(t, d.Matches(Filter{ManagerID: "u2"}))
}

func TestAggregatePlanLinesYear(t *testing.T) {
	lines := []PlanLine{
		{
			LineDims: LineDims{PipelineID: "P1", ServiceSnapshot: "SI"},
			Months:   MonthlySeries{100, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 200},
		},
		{
			LineDims: LineDims{PipelineID: "P2", ServiceSnapshot: "SI"},
			Months:   MonthlySeries{50, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			LineDims: LineDims{PipelineID: "P3", ServiceLive: "컨설팅"},
			Months:   MonthlySeries{0, 0, 0, 70, 0, 0, 0, 0, 0, 0, 0, 0},
		},
	}

	rows := AggregatePlanLines(lines, DimensionService, PeriodYear, Filter{})
	require.Len(t, rows, 2)

	byLabel := map[string]map[string]float64{}
	for _, r := range rows {
		byLabel[r.GroupName] = r.Values
	}
	assert.Equal(t, 350.0, byLabel["SI"]["plan_total"])
	assert.Equal(t, 70.0, byLabel["컨설팅"]["plan_total"])
}

func TestAggregatePlanLinesQuarter(t *testing.T) {
	lines := []PlanLine{
		{
			LineDims: LineDims{PipelineID: "P1", OrgSnapshot: "A"},
			Months:   MonthlySeries{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		},
	}

	rows := AggregatePlanLines(lines, DimensionOrg, PeriodQuarter, Filter{})
	require.Len(t, rows, 1)
	assert.Equal(t, 6.0, rows[0].Values["q1"])
	assert.Equal(t, 15.0, rows[0].Values["q2"])
	assert.Equal(t, 24.0, rows[0].Values["q3"])
	assert.Equal(t, 33.0, rows[0].Values["q4"])
}

func TestAggregatePlanLinesFilter(t *testing.T) {
	lines := []PlanLine{
		{
			LineDims: LineDims{PipelineID: "P1", OrgID: "10", OrgSnapshot: "A"},
			Months:   MonthlySeries{100},
		},
		{
			LineDims: LineDims{PipelineID: "P2", OrgID: "20", OrgSnapshot: "B"},
			Months:   MonthlySeries{200},
		},
	}

	rows := AggregatePlanLines(lines, DimensionOrg, PeriodYear, Filter{OrgID: "10"})
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].GroupName)
	assert.Equal(t, 100.0, rows[0].Values["plan_total"])
}

func TestAggregateActualLinesMetric(t *testing.T) {
	lines := []ActualLine{
		{
			LineDims: LineDims{PipelineID: "P1", CustomerSnapshot: "고객사"},
			Order:    MonthlySeries{100, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			Profit:   MonthlySeries{10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
	}

	orderOnly := AggregateActualLines(lines, DimensionCustomer, PeriodYear, MetricOrder, Filter{})
	require.Len(t, orderOnly, 1)
	assert.Equal(t, 100.0, orderOnly[0].Values["order_total"])
	_, hasProfit := orderOnly[0].Values["profit_total"]
	assert.False(t, hasProfit)

	both := AggregateActualLines(lines, DimensionCustomer, PeriodYear, MetricBoth, Filter{})
	require.Len(t, both, 1)
	assert.Equal(t, 100.0, both[0].Values["order_total"])
	assert.Equal(t, 10.0, both[0].Values["profit_total"])
}

func TestAggregateActualLinesMonthColumns(t *testing.T) {
	lines := []ActualLine{
		{
			LineDims: LineDims{PipelineID: "P1", FieldSnapshot: "금융"},
			Order:    MonthlySeries{0, 0, 30, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			Profit:   MonthlySeries{0, 0, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
	}

	rows := AggregateActualLines(lines, DimensionField, PeriodMonth, MetricBoth, Filter{})
	require.Len(t, rows, 1)
	assert.Equal(t, 30.0, rows[0].Values["m03_order"])
	assert.Equal(t, 3.0, rows[0].Values["m03_profit"])
	assert.Equal(t, 0.0, rows[0].Values["m01_order"])
}

func TestAggregateGroupsLabelsCaseSensitively(t *testing.T) {
	lines := []PlanLine{
		{LineDims: LineDims{PipelineID: "P1", ServiceSnapshot: "si"}, Months: MonthlySeries{10}},
		{LineDims: LineDims{PipelineID: "P2", ServiceSnapshot: "SI"}, Months: MonthlySeries{20}},
	}

	rows := AggregatePlanLines(lines, DimensionService, PeriodYear, Filter{})
	assert.Len(t, rows, 2)
}

func TestSortedAggRowsOrdersKoreanLabels(t *testing.T) {
	lines := []PlanLine{
		{LineDims: LineDims{PipelineID: "P1", ServiceSnapshot: "하"}, Months: MonthlySeries{1}},
		{LineDims: LineDims{PipelineID: "P2", ServiceSnapshot: "가"}, Months: MonthlySeries{1}},
		{LineDims: LineDims{PipelineID: "P3", ServiceSnapshot: "나"}, Months: MonthlySeries{1}},
	}

	rows := AggregatePlanLines(lines, DimensionService, PeriodYear, Filter{})
	require.Len(t, rows, 3)
	assert.Equal(t, "가", rows[0].GroupName)
	assert.Equal(t, "나", rows[1].GroupName)
	assert.Equal(t, "하", rows[2].GroupName)
}
