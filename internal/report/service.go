package report

import (
	"context"
	"fmt"

	"github.com/gninraw7/psms/internal/shared"
)

// Service orchestrates one summary request: plan selection, per-target
// aggregation, gap merge, subtotal and grand-total rows. It is stateless and
// read-only; nothing is cached across requests.
type Service struct {
	repo Repository
}

// NewService wires the aggregation service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summary runs the full plan/actual/gap pipeline for one request.
func (s *Service) Summary(ctx context.Context, tenant shared.Tenant, req Request) (*Result, error) {
	headers, err := s.repo.PlanHeadersForYear(ctx, tenant, req.Year)
	if err != nil {
		return nil, err
	}
	planIDs := SelectPlanIDs(headers, req.Year, PlanSelector{
		PlanID:  req.PlanID,
		Version: req.PlanVersion,
		Status:  req.PlanStatus,
	})

	columns := BuildColumns(req.Source, req.Metric, req.Period)
	metricFields := MetricFields(columns)

	targets, err := s.resolveTargets(ctx, tenant, req)
	if err != nil {
		return nil, err
	}
	explicitTargets := len(targets) > 0
	if !explicitTargets {
		targets = []Target{{Type: "all", ID: nil, Name: LabelAllTargets}}
	}

	items := make([]Row, 0)
	detailRows := make([]Row, 0)

	for _, target := range targets {
		filter := Filter{}
		switch target.Type {
		case "org":
			filter.OrgID = *target.ID
		case "manager":
			filter.ManagerID = *target.ID
		}

		targetItems, err := s.aggregateTarget(ctx, tenant, req, planIDs, filter)
		if err != nil {
			return nil, err
		}
		for _, row := range targetItems {
			row["target_type"] = target.Type
			row["target_id"] = target.ID
			row["target_name"] = target.Name
		}

		detailRows = append(detailRows, targetItems...)
		items = append(items, targetItems...)

		// Explicit targets each get a subtotal; the implicit "all" target
		// only contributes to the grand total.
		if explicitTargets {
			subtotal := SumRows(targetItems, metricFields, req.Period)
			subtotal["target_type"] = target.Type
			subtotal["target_id"] = target.ID
			subtotal["target_name"] = target.Name
			subtotal["group_name"] = LabelSubtotal
			subtotal["row_type"] = RowTypeSubtotal
			items = append(items, subtotal)
		}
	}

	grand := SumRows(detailRows, metricFields, req.Period)
	grand["target_type"] = "all"
	grand["target_id"] = nil
	grand["target_name"] = LabelGrandTotal
	grand["group_name"] = LabelGrandTotal
	grand["row_type"] = RowTypeGrandTotal
	items = append(items, grand)

	return &Result{Columns: columns, Items: items, Targets: targets}, nil
}

// aggregateTarget runs the plan/actual aggregates for one target filter and
// combines them according to the requested source.
func (s *Service) aggregateTarget(ctx context.Context, tenant shared.Tenant, req Request, planIDs []int64, f Filter) ([]Row, error) {
	var planRows, actualRows []AggRow
	var err error

	if req.Source == SourcePlan || req.Source == SourceGap {
		planRows, err = s.repo.PlanAggregate(ctx, tenant, planIDs, req.Dimension, req.Period, f)
		if err != nil {
			return nil, err
		}
	}
	if req.Source == SourceActual || req.Source == SourceGap {
		metric := req.Metric
		if req.Source == SourceGap {
			metric = MetricBoth
		}
		actualRows, err = s.repo.ActualAggregate(ctx, tenant, req.Year, req.Dimension, req.Period, metric, f)
		if err != nil {
			return nil, err
		}
	}

	switch req.Source {
	case SourcePlan:
		return aggRowsToRows(planRows), nil
	case SourceActual:
		return aggRowsToRows(actualRows), nil
	default:
		return MergeGap(planRows, actualRows, req.Period), nil
	}
}

func aggRowsToRows(aggs []AggRow) []Row {
	rows := make([]Row, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, RowFromAgg(agg))
	}
	return rows
}

// resolveTargets builds the explicit target list from org/manager ids, with
// names resolved from master data and the id itself as display fallback.
func (s *Service) resolveTargets(ctx context.Context, tenant shared.Tenant, req Request) ([]Target, error) {
	var targets []Target

	if len(req.OrgIDs) > 0 {
		names, err := s.repo.OrgNames(ctx, tenant, req.OrgIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range req.OrgIDs {
			id := id
			name, ok := names[id]
			if !ok {
				name = id
			}
			targets = append(targets, Target{Type: "org", ID: &id, Name: fmt.Sprintf("조직: %s", name)})
		}
	}

	if len(req.ManagerIDs) > 0 {
		names, err := s.repo.ManagerNames(ctx, tenant, req.ManagerIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range req.ManagerIDs {
			id := id
			name, ok := names[id]
			if !ok {
				name = id
			}
			targets = append(targets, Target{Type: "manager", ID: &id, Name: fmt.Sprintf("담당자: %s", name)})
		}
	}

	return targets, nil
}
