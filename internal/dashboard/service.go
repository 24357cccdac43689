package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gninraw7/psms/internal/report"
	"github.com/gninraw7/psms/internal/shared"
)

// Service assembles the CEO dashboard. Pure derivation over read-only data;
// the independent source reads run concurrently.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires the dashboard service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Build computes the full dashboard for one year.
func (s *Service) Build(ctx context.Context, tenant shared.Tenant, year int) (*Dashboard, error) {
	var (
		projects           []Project
		order, profit      report.MonthlySeries
		prevOrder          report.MonthlySeries
		plan               report.MonthlySeries
		years              []int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = s.repo.Projects(gctx, tenant)
		return err
	})
	g.Go(func() error {
		var err error
		order, profit, err = s.repo.ActualMonthlyTotals(gctx, tenant, year)
		return err
	})
	g.Go(func() error {
		var err error
		prevOrder, _, err = s.repo.ActualMonthlyTotals(gctx, tenant, year-1)
		return err
	})
	g.Go(func() error {
		var err error
		plan, err = s.repo.PlanMonthlyTotals(gctx, tenant, year)
		return err
	})
	g.Go(func() error {
		var err error
		years, err = s.repo.AvailableYears(gctx, tenant)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	if len(years) == 0 {
		years = []int{year}
	}

	return &Dashboard{
		Year:              year,
		AvailableYears:    years,
		KPI:               deriveKPI(projects, order, profit, prevOrder, plan, now),
		MonthlyTrend:      deriveMonthlyTrend(order, prevOrder, plan),
		QuarterComparison: deriveQuarterComparison(order, plan),
		StageFunnel:       deriveStageFunnel(projects),
		ProbabilityBands:  deriveProbabilityBands(projects),
		ManagerTop:        deriveManagerTop(projects),
		FieldMix:          deriveFieldMix(projects),
		CustomerTop:       deriveCustomerTop(projects),
		RiskProjects:      deriveRiskProjects(projects, now),
		GeneratedAt:       now.UTC(),
	}, nil
}
