package report

import (
	"context"

	"github.com/gninraw7/psms/internal/shared"
)

// Repository is the read interface the aggregator needs. Any tabular source
// that can reproduce the grouped sums works; the pgx implementation pushes
// the grouping into SQL, the test fake reduces in-memory lines with the same
// field specs.
type Repository interface {
	// PlanHeadersForYear returns every plan header for the year; selection
	// precedence is applied by SelectPlanIDs.
	PlanHeadersForYear(ctx context.Context, tenant shared.Tenant, year int) ([]PlanHeader, error)

	// PlanAggregate sums monthly plan values per dimension bucket across the
	// given plan ids.
	PlanAggregate(ctx context.Context, tenant shared.Tenant, planIDs []int64, dim Dimension, period Period, f Filter) ([]AggRow, error)

	// ActualAggregate sums monthly order/profit values per dimension bucket
	// for the year.
	ActualAggregate(ctx context.Context, tenant shared.Tenant, year int, dim Dimension, period Period, metric Metric, f Filter) ([]AggRow, error)

	// OrgNames and ManagerNames resolve target labels; unknown ids are simply
	// absent from the result map.
	OrgNames(ctx context.Context, tenant shared.Tenant, ids []string) (map[string]string, error)
	ManagerNames(ctx context.Context, tenant shared.Tenant, ids []string) (map[string]string, error)
}
