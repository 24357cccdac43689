package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gninraw7/psms/internal/shared"
)

// ============================================================
// Mock repository
// ============================================================

// mockRepository reduces in-memory lines with the same field specs the SQL
// repository compiles, so the service pipeline is tested against the
// reference aggregation semantics.
type mockRepository struct {
	headers     []PlanHeader
	planLines   []PlanLine
	actualLines []ActualLine
	orgNames    map[string]string
	mgrNames    map[string]string

	headersErr error
	planErr    error
	actualErr  error

	planCalls   int
	actualCalls int
	lastPlanIDs []int64
	lastMetric  Metric
	lastFilters []Filter
}

func (m *mockRepository) PlanHeadersForYear(_ context.Context, _ shared.Tenant, year int) ([]PlanHeader, error) {
	if m.headersErr != nil {
		return nil, m.headersErr
	}
	var out []PlanHeader
	for _, h := range m.headers {
		if h.PlanYear == year {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockRepository) PlanAggregate(_ context.Context, _ shared.Tenant, planIDs []int64, dim Dimension, period Period, f Filter) ([]AggRow, error) {
	if m.planErr != nil {
		return nil, m.planErr
	}
	m.planCalls++
	m.lastPlanIDs = planIDs
	m.lastFilters = append(m.lastFilters, f)
	if len(planIDs) == 0 {
		return nil, nil
	}
	return AggregatePlanLines(m.planLines, dim, period, f), nil
}

func (m *mockRepository) ActualAggregate(_ context.Context, _ shared.Tenant, _ int, dim Dimension, period Period, metric Metric, f Filter) ([]AggRow, error) {
	if m.actualErr != nil {
		return nil, m.actualErr
	}
	m.actualCalls++
	m.lastMetric = metric
	return AggregateActualLines(m.actualLines, dim, period, metric, f), nil
}

func (m *mockRepository) OrgNames(_ context.Context, _ shared.Tenant, ids []string) (map[string]string, error) {
	return m.orgNames, nil
}

func (m *mockRepository) ManagerNames(_ context.Context, _ shared.Tenant, ids []string) (map[string]string, error) {
	return m.mgrNames, nil
}

func testTenant() shared.Tenant {
	return shared.Tenant{CompanyCode: "C100"}
}

func fixtureRepo() *mockRepository {
	return &mockRepository{
		headers: []PlanHeader{
			{PlanID: 1, PlanYear: 2025, Version: "v1", Status: PlanStatusFinal, UpdatedAt: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)},
			{PlanID: 2, PlanYear: 2025, Version: "v2", Status: PlanStatusDraft, UpdatedAt: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)},
		},
		planLines: []PlanLine{
			{
				LineDims: LineDims{PipelineID: "P1", OrgID: "10", OrgSnapshot: "영업1팀", ServiceSnapshot: "SI"},
				Months:   MonthlySeries{100, 100, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			},
			{
				LineDims: LineDims{PipelineID: "P2", OrgID: "20", OrgSnapshot: "영업2팀", ServiceSnapshot: "컨설팅"},
				Months:   MonthlySeries{0, 0, 0, 300, 0, 0, 0, 0, 0, 0, 0, 0},
			},
		},
		actualLines: []ActualLine{
			{
				LineDims: LineDims{PipelineID: "P1", OrgID: "10", OrgSnapshot: "영업1팀", ServiceSnapshot: "SI"},
				Order:    MonthlySeries{150, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
				Profit:   MonthlySeries{15, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			},
		},
		orgNames: map[string]string{"10": "영업1팀"},
		mgrNames: map[string]string{"u1": "김담당"},
	}
}

// ============================================================
// Summary pipeline
// ============================================================

func TestSummaryGapYear(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo)

	res, err := svc.Summary(context.Background(), testTenant(), Request{
		Source: SourceGap, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricBoth,
	})
	require.NoError(t, err)

	// One implicit "all" target, no subtotal, grand total last.
	require.Len(t, res.Targets, 1)
	assert.Equal(t, "all", res.Targets[0].Type)
	assert.Equal(t, LabelAllTargets, res.Targets[0].Name)

	require.Len(t, res.Items, 3)
	assert.Equal(t, "SI", res.Items[0]["group_name"])
	assert.Equal(t, "컨설팅", res.Items[1]["group_name"])

	grand := res.Items[2]
	assert.Equal(t, RowTypeGrandTotal, grand["row_type"])
	assert.Equal(t, LabelGrandTotal, grand["group_name"])
	assert.Equal(t, LabelGrandTotal, grand["target_name"])
	assert.Equal(t, 500.0, grand["plan_total"])
	assert.Equal(t, 150.0, grand["order_total"])
	assert.Equal(t, 0.3, grand["ratio"])
}

func TestSummaryGapRatioNullOnActualOnlyBucket(t *testing.T) {
	repo := fixtureRepo()
	repo.actualLines = append(repo.actualLines, ActualLine{
		LineDims: LineDims{PipelineID: "P9", ServiceSnapshot: "유지보수"},
		Order:    MonthlySeries{80},
		Profit:   MonthlySeries{8},
	})
	svc := NewService(repo)

	res, err := svc.Summary(context.Background(), testTenant(), Request{
		Source: SourceGap, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricBoth,
	})
	require.NoError(t, err)

	var row Row
	for _, it := range res.Items {
		if it["group_name"] == "유지보수" {
			row = it
		}
	}
	require.NotNil(t, row)
	assert.Nil(t, row["ratio"])
	_, hasPlan := row["plan_total"]
	assert.False(t, hasPlan)
}

func TestSummaryGapForcesBothMetrics(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo)

	_, err := svc.Summary(context.Background(), testTenant(), Request{
		Source: SourceGap, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricOrder,
	})
	require.NoError(t, err)
	assert.Equal(t, MetricBoth, repo.lastMetric)
}

func TestSummaryPlanOnlySkipsActuals(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo)

	res, err := svc.Summary(context.Background(), testTenant(), Request{
		Source: SourcePlan, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricBoth,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.planCalls)
	assert.Equal(t, 0, repo.actualCalls)
	require.Len(t, res.Items, 3)
	_, hasOrder := res.Items[0]["order_total"]
	assert.False(t, hasOrder)
}

func TestSummaryActualOnlyKeepsMetric(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo)

	res, err := svc.Summary(context.Background(), testTenant(), Request{
		Source: SourceActual, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricProfit,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, repo.planCalls)
	assert.Equal(t, MetricProfit, repo.lastMetric)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 15.0, res.Items[0]["profit_total"])
}

func TestSummarySelectsFinalPlanByDefault(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo)

	_, err := svc.Summary(context.Background(), testTenant(), Request{
		Source: SourcePlan, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricBoth,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, repo.lastPlanIDs)
}

func TestSummarySelectsPlanByVersion(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo)

	_, err := svc.Summary(context.Background(), testTenant(), Request{
		Source: SourcePlan, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricBoth,
		PlanVersion: "v2",
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, repo.lastPlanIDs)
}

// ============================================================
// Targets and totals
// ============================================================

func TestSummaryExplicitOrgTargets(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo)

	res, err := svc.Summary(context.Background(), testTenant(), Request{
		Source: SourceGap, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricBoth,
		OrgIDs: []string{"10", "99"},
	})
	require.NoError(t, err)

	require.Len(t, res.Targets, 2)
	assert.Equal(t, "조직: 영업1팀", res.Targets[0].Name)
	// Unknown org id falls back to the id itself.
	assert.Equal(t, "조직: 99", res.Targets[1].Name)

	// Each target section ends with a subtotal, the report with a grand total.
	var subtotals, grands int
	for _, it := range res.Items {
		switch it["row_type"] {
		case RowTypeSubtotal:
			subtotals++
			assert.Equal(t, LabelSubtotal, it["group_name"])
		case RowTypeGrandTotal:
			grands++
		}
	}
	assert.Equal(t, 2, subtotals)
	assert.Equal(t, 1, grands)
	assert.Equal(t, RowTypeGrandTotal, res.Items[len(res.Items)-1]["row_type"])

	// Filters passed through per target.
	require.Len(t, repo.lastFilters, 2)
	assert.Equal(t, Filter{OrgID: "10"}, repo.lastFilters[0])
	assert.Equal(t, Filter{OrgID: "99"}, repo.lastFilters[1])
}

func TestSummaryManagerTargetLabel(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo)

	res, err := svc.Summary(context.Background(), testTenant(), Request{
		Source: SourceGap, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricBoth,
		ManagerIDs: []string{"u1"},
	})
	require.NoError(t, err)

	require.Len(t, res.Targets, 1)
	assert.Equal(t, "manager", res.Targets[0].Type)
	assert.Equal(t, "담당자: 김담당", res.Targets[0].Name)
}

func TestSummaryGrandTotalRecomputesRatio(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo)

	res, err := svc.Summary(context.Background(), testTenant(), Request{
		Source: SourceGap, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricBoth,
		OrgIDs: []string{"10", "20"},
	})
	require.NoError(t, err)

	grand := res.Items[len(res.Items)-1]
	// 150 order over 500 plan across both targets.
	assert.Equal(t, 500.0, grand["plan_total"])
	assert.Equal(t, 0.3, grand["ratio"])
}

func TestSummaryRepoErrorsPropagate(t *testing.T) {
	boom := errors.New("db down")

	repo := fixtureRepo()
	repo.headersErr = boom
	_, err := NewService(repo).Summary(context.Background(), testTenant(), Request{
		Source: SourceGap, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricBoth,
	})
	assert.ErrorIs(t, err, boom)

	repo = fixtureRepo()
	repo.actualErr = boom
	_, err = NewService(repo).Summary(context.Background(), testTenant(), Request{
		Source: SourceActual, Year: 2025, Dimension: DimensionService, Period: PeriodYear, Metric: MetricBoth,
	})
	assert.ErrorIs(t, err, boom)
}
