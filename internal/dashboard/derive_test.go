package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gninraw7/psms/internal/report"
)

var testNow = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time { return testNow.Add(-time.Duration(d) * 24 * time.Hour) }

func timePtr(t time.Time) *time.Time { return &t }

func TestDeriveKPITotals(t *testing.T) {
	projects := []Project{
		{PipelineID: "P1", StageCode: "S02", QuotedAmount: 1000, WinProbability: 80, UpdatedAt: daysAgo(1)},
		{PipelineID: "P2", StageCode: "S03", QuotedAmount: 500, WinProbability: 40, UpdatedAt: daysAgo(2)},
		{PipelineID: "P3", StageCode: "S07", QuotedAmount: 300, WinProbability: 100, UpdatedAt: daysAgo(3)},
		{PipelineID: "P4", StageCode: "S05", QuotedAmount: 200, WinProbability: 0, UpdatedAt: daysAgo(4)},
	}
	order := report.MonthlySeries{100, 100, 100}
	profit := report.MonthlySeries{10, 10, 10}
	prevOrder := report.MonthlySeries{200}
	plan := report.MonthlySeries{600}

	kpi := deriveKPI(projects, order, profit, prevOrder, plan, testNow)

	assert.Equal(t, 300.0, kpi.OrderTotal)
	assert.Equal(t, 30.0, kpi.ProfitTotal)
	assert.Equal(t, 600.0, kpi.PlanTotal)

	require.NotNil(t, kpi.OrderYoYRate)
	assert.InDelta(t, 0.5, *kpi.OrderYoYRate, 1e-9)
	require.NotNil(t, kpi.AchievementRate)
	assert.InDelta(t, 0.5, *kpi.AchievementRate, 1e-9)

	assert.Equal(t, 4, kpi.TotalProjects)
	assert.Equal(t, 2, kpi.ActiveProjects)
	assert.Equal(t, 1, kpi.ClosedProjects)
	assert.Equal(t, 1, kpi.LostProjects)

	assert.Equal(t, 1500.0, kpi.ActivePipelineAmount)
	// 1000*0.8 + 500*0.4
	assert.Equal(t, 1000.0, kpi.ExpectedAmount)
	assert.Equal(t, 60.0, kpi.AvgWinProbability)
}

func TestDeriveKPIRatesNilOnZeroDenominator(t *testing.T) {
	kpi := deriveKPI(nil, report.MonthlySeries{50}, report.MonthlySeries{}, report.MonthlySeries{}, report.MonthlySeries{}, testNow)

	assert.Nil(t, kpi.OrderYoYRate)
	assert.Nil(t, kpi.AchievementRate)
}

func TestDeriveKPIRiskCounters(t *testing.T) {
	projects := []Project{
		// Overdue and low probability.
		{PipelineID: "P1", StageCode: "S02", WinProbability: 10, ContractEndDate: timePtr(daysAgo(5)), UpdatedAt: daysAgo(1)},
		// Stale only.
		{PipelineID: "P2", StageCode: "S03", WinProbability: 60, UpdatedAt: daysAgo(120)},
		// Closed projects are never flagged.
		{PipelineID: "P3", StageCode: "S07", WinProbability: 5, ContractEndDate: timePtr(daysAgo(5)), UpdatedAt: daysAgo(200)},
	}

	kpi := deriveKPI(projects, report.MonthlySeries{}, report.MonthlySeries{}, report.MonthlySeries{}, report.MonthlySeries{}, testNow)

	assert.Equal(t, 1, kpi.OverdueProjects)
	assert.Equal(t, 1, kpi.StaleProjects)
	assert.Equal(t, 1, kpi.LowProbabilityProjects)
}

func TestDeriveMonthlyTrend(t *testing.T) {
	order := report.MonthlySeries{10, 20}
	prev := report.MonthlySeries{5}
	plan := report.MonthlySeries{0, 30}

	points := deriveMonthlyTrend(order, prev, plan)
	require.Len(t, points, 12)

	assert.Equal(t, 1, points[0].Month)
	assert.Equal(t, 10.0, points[0].ActualOrder)
	assert.Equal(t, 5.0, points[0].PreviousOrder)
	assert.Equal(t, 30.0, points[1].PlanOrder)
	assert.Equal(t, 12, points[11].Month)
	assert.Equal(t, 0.0, points[11].ActualOrder)
}

func TestDeriveQuarterComparison(t *testing.T) {
	order := report.MonthlySeries{10, 10, 10, 40, 0, 0, 0, 0, 0, 0, 0, 0}
	plan := report.MonthlySeries{60, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	rows := deriveQuarterComparison(order, plan)
	require.Len(t, rows, 4)

	assert.Equal(t, "Q1", rows[0].Quarter)
	assert.Equal(t, 30.0, rows[0].ActualOrder)
	assert.Equal(t, 60.0, rows[0].PlanOrder)
	require.NotNil(t, rows[0].AchievementRate)
	assert.InDelta(t, 0.5, *rows[0].AchievementRate, 1e-9)

	// Q2 has actuals but no plan: the rate is null, not infinite.
	assert.Equal(t, "Q2", rows[1].Quarter)
	assert.Equal(t, 40.0, rows[1].ActualOrder)
	assert.Nil(t, rows[1].AchievementRate)
}

func TestDeriveStageFunnelOrder(t *testing.T) {
	projects := []Project{
		{PipelineID: "P1", StageCode: "S03", StageName: "제안", QuotedAmount: 100, WinProbability: 50},
		{PipelineID: "P2", StageCode: "S01", StageName: "발굴", QuotedAmount: 200, WinProbability: 20},
		{PipelineID: "P3", StageCode: "S03", StageName: "제안", QuotedAmount: 300, WinProbability: 70},
		{PipelineID: "P4", StageCode: "ZZZ", StageName: "", QuotedAmount: 50, WinProbability: 10},
	}

	entries := deriveStageFunnel(projects)
	require.Len(t, entries, 3)

	// Fixed stage sequence, unknown codes trailing.
	assert.Equal(t, "S01", entries[0].StageCode)
	assert.Equal(t, "S03", entries[1].StageCode)
	assert.Equal(t, "ZZZ", entries[2].StageCode)

	s03 := entries[1]
	assert.Equal(t, 2, s03.ProjectCount)
	assert.Equal(t, 400.0, s03.TotalAmount)
	assert.Equal(t, 60.0, s03.AvgWinProbability)
}

func TestDeriveProbabilityBands(t *testing.T) {
	projects := []Project{
		{PipelineID: "P1", StageCode: "S02", WinProbability: 95},
		{PipelineID: "P2", StageCode: "S02", WinProbability: 70},
		{PipelineID: "P3", StageCode: "S02", WinProbability: 30},
		{PipelineID: "P4", StageCode: "S02", WinProbability: 0},
		// Lost projects stay out of the histogram.
		{PipelineID: "P5", StageCode: "S05", WinProbability: 90},
	}

	bands := deriveProbabilityBands(projects)
	require.Len(t, bands, 5)

	assert.Equal(t, "90-100%", bands[0].Band)
	assert.Equal(t, 1, bands[0].ProjectCount)
	assert.Equal(t, "70-89%", bands[1].Band)
	assert.Equal(t, 1, bands[1].ProjectCount)
	// Empty bands are still emitted.
	assert.Equal(t, "50-69%", bands[2].Band)
	assert.Equal(t, 0, bands[2].ProjectCount)
	assert.Equal(t, 1, bands[3].ProjectCount)
	assert.Equal(t, 1, bands[4].ProjectCount)
}

func TestDeriveManagerTopRankingAndLimit(t *testing.T) {
	var projects []Project
	for i := 0; i < 7; i++ {
		projects = append(projects, Project{
			PipelineID:     "P" + string(rune('A'+i)),
			StageCode:      "S02",
			ManagerName:    "M" + string(rune('A'+i)),
			QuotedAmount:   float64(100 * (i + 1)),
			WinProbability: 50,
		})
	}

	entries := deriveManagerTop(projects)
	require.Len(t, entries, 5)
	assert.Equal(t, "MG", entries[0].ManagerName)
	assert.Equal(t, 350.0, entries[0].ExpectedAmount)
	assert.Equal(t, "MC", entries[4].ManagerName)
}

func TestDeriveCustomerTopMissingNameFallsBack(t *testing.T) {
	projects := []Project{
		{PipelineID: "P1", StageCode: "S02", CustomerName: "", QuotedAmount: 100, WinProbability: 100},
		{PipelineID: "P2", StageCode: "S02", CustomerName: "고객사A", QuotedAmount: 50, WinProbability: 100},
	}

	entries := deriveCustomerTop(projects)
	require.Len(t, entries, 2)
	assert.Equal(t, "-", entries[0].CustomerName)
	assert.Equal(t, 100.0, entries[0].ExpectedAmount)
}

func TestDeriveFieldMixSortsByQuotedAmount(t *testing.T) {
	projects := []Project{
		{PipelineID: "P1", StageCode: "S02", FieldName: "금융", QuotedAmount: 100, WinProbability: 90},
		{PipelineID: "P2", StageCode: "S02", FieldName: "공공", QuotedAmount: 300, WinProbability: 10},
	}

	entries := deriveFieldMix(projects)
	require.Len(t, entries, 2)
	// Sorted by quoted amount, not expected amount.
	assert.Equal(t, "공공", entries[0].FieldName)
	assert.Equal(t, 300.0, entries[0].TotalAmount)
}

func TestDeriveRiskProjectsOrderingAndLimit(t *testing.T) {
	projects := []Project{
		// Stale only, the oldest update.
		{PipelineID: "STALE", StageCode: "S02", WinProbability: 60, UpdatedAt: daysAgo(200)},
		// Low probability only.
		{PipelineID: "LOW", StageCode: "S02", WinProbability: 10, UpdatedAt: daysAgo(1)},
		// Overdue beats everything.
		{PipelineID: "OVERDUE", StageCode: "S02", WinProbability: 60, ContractEndDate: timePtr(daysAgo(3)), UpdatedAt: daysAgo(1)},
		// Healthy project stays out.
		{PipelineID: "OK", StageCode: "S02", WinProbability: 60, UpdatedAt: daysAgo(1)},
	}

	rows := deriveRiskProjects(projects, testNow)
	require.Len(t, rows, 3)
	assert.Equal(t, "OVERDUE", rows[0].PipelineID)
	assert.True(t, rows[0].IsOverdue)
	assert.Equal(t, "LOW", rows[1].PipelineID)
	assert.True(t, rows[1].IsLowProbability)
	assert.Equal(t, "STALE", rows[2].PipelineID)
	assert.True(t, rows[2].IsStale)
}

func TestDeriveRiskProjectsLimit(t *testing.T) {
	var projects []Project
	for i := 0; i < 20; i++ {
		projects = append(projects, Project{
			PipelineID:     "P" + string(rune('A'+i)),
			StageCode:      "S02",
			WinProbability: 5,
			UpdatedAt:      daysAgo(i + 1),
		})
	}

	rows := deriveRiskProjects(projects, testNow)
	assert.Len(t, rows, riskListLimit)
}

func TestAssessRiskInactiveNeverFlagged(t *testing.T) {
	p := Project{StageCode: "S08", WinProbability: 1, ContractEndDate: timePtr(daysAgo(10)), UpdatedAt: daysAgo(365)}
	assert.False(t, assessRisk(p, testNow).any())
}
