package dashboard

import (
	"context"

	"github.com/gninraw7/psms/internal/report"
	"github.com/gninraw7/psms/internal/shared"
)

// Repository is the read interface behind the dashboard.
type Repository interface {
	// AvailableYears lists the distinct years present in either the actual
	// or the plan tables, newest first.
	AvailableYears(ctx context.Context, tenant shared.Tenant) ([]int, error)

	// ActualMonthlyTotals sums order and profit per month for one year.
	ActualMonthlyTotals(ctx context.Context, tenant shared.Tenant, year int) (order, profit report.MonthlySeries, err error)

	// PlanMonthlyTotals sums monthly plan amounts for the year's applicable
	// plan (FINAL preferred, else the most recently updated). A year without
	// any plan yields a zero series.
	PlanMonthlyTotals(ctx context.Context, tenant shared.Tenant, year int) (report.MonthlySeries, error)

	// Projects returns the full pipeline list with joined master-data names.
	Projects(ctx context.Context, tenant shared.Tenant) ([]Project, error)
}
