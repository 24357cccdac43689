package actuals

import (
	"context"
	"fmt"
	"time"

	"github.com/gninraw7/psms/internal/platform/httpx"
	"github.com/gninraw7/psms/internal/projects"
	"github.com/gninraw7/psms/internal/shared"
)

// SnapshotSource supplies current project dimension names for line
// writes.
type SnapshotSource interface {
	SnapshotMap(ctx context.Context, tenant shared.Tenant, pipelineIDs []string) (map[string]projects.Snapshot, error)
}

type Service struct {
	repo      Repository
	snapshots SnapshotSource
}

func NewService(repo Repository, snapshots SnapshotSource) *Service {
	return &Service{repo: repo, snapshots: snapshots}
}

func (s *Service) ListLines(ctx context.Context, tenant shared.Tenant, year int, filter LineFilter) ([]Line, error) {
	return s.repo.ListLines(ctx, tenant, year, filter)
}

func (s *Service) GroupTotals(ctx context.Context, tenant shared.Tenant, year int, group string) ([]GroupTotal, error) {
	if group == "" {
		group = "org"
	}
	return s.repo.GroupTotals(ctx, tenant, year, group)
}

// SaveLines batch-upserts actual lines. Dimension ids and contract
// dates missing from the request come from the live project, dimension
// names are always snapshotted, and missing totals are recomputed from
// the months.
func (s *Service) SaveLines(ctx context.Context, tenant shared.Tenant, req SaveLinesRequest) (int, error) {
	pipelineIDs := make([]string, 0, len(req.Lines))
	for _, item := range req.Lines {
		pipelineIDs = append(pipelineIDs, item.PipelineID)
	}
	snapshots, err := s.snapshots.SnapshotMap(ctx, tenant, pipelineIDs)
	if err != nil {
		return 0, err
	}

	lines := make([]Line, 0, len(req.Lines))
	for _, item := range req.Lines {
		line, err := buildLine(req.ActualYear, item, snapshots[item.PipelineID])
		if err != nil {
			return 0, err
		}
		lines = append(lines, line)
	}

	return s.repo.UpsertLines(ctx, tenant, req.ActualYear, lines, req.UpdatedBy)
}

func buildLine(year int, item LineItem, snap projects.Snapshot) (Line, error) {
	contractDate, err := parseDate(item.ContractDate, snap.ContractDate)
	if err != nil {
		return Line{}, err
	}
	startDate, err := parseDate(item.StartDate, snap.StartDate)
	if err != nil {
		return Line{}, err
	}
	endDate, err := parseDate(item.EndDate, snap.EndDate)
	if err != nil {
		return Line{}, err
	}

	orderTotal := item.OrderSum()
	if item.OrderTotal != nil {
		orderTotal = *item.OrderTotal
	}
	profitTotal := item.ProfitSum()
	if item.ProfitTotal != nil {
		profitTotal = *item.ProfitTotal
	}

	line := Line{
		ActualYear:        year,
		PipelineID:        item.PipelineID,
		FieldCode:         coalesceStr(item.FieldCode, snap.FieldCode),
		FieldName:         snap.FieldName,
		ServiceCode:       coalesceStr(item.ServiceCode, snap.ServiceCode),
		ServiceName:       snap.ServiceName,
		CustomerID:        coalesceInt(item.CustomerID, snap.CustomerID),
		CustomerName:      snap.CustomerName,
		OrderingPartyID:   coalesceInt(item.OrderingPartyID, snap.OrderingPartyID),
		OrderingPartyName: snap.OrderingPartyName,
		ProjectName:       snap.ProjectName,
		OrgID:             coalesceInt(item.OrgID, snap.OrgID),
		OrgName:           snap.OrgName,
		ManagerID:         coalesceStr(item.ManagerID, snap.ManagerID),
		ManagerName:       snap.ManagerName,
		ContractDate:      contractDate,
		StartDate:         startDate,
		EndDate:           endDate,
		OrderTotal:        orderTotal,
		ProfitTotal:       profitTotal,
		O01:               item.O01, P01: item.P01, O02: item.O02, P02: item.P02,
		O03: item.O03, P03: item.P03, O04: item.O04, P04: item.P04,
		O05: item.O05, P05: item.P05, O06: item.O06, P06: item.P06,
		O07: item.O07, P07: item.P07, O08: item.O08, P08: item.P08,
		O09: item.O09, P09: item.P09, O10: item.O10, P10: item.P10,
		O11: item.O11, P11: item.P11, O12: item.O12, P12: item.P12,
	}
	return line, nil
}

func parseDate(raw *string, fallback *time.Time) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", httpx.ErrValidation, *raw)
	}
	return &t, nil
}

func coalesceStr(a, b *string) *string {
	if a != nil && *a != "" {
		return a
	}
	return b
}

func coalesceInt(a, b *int64) *int64 {
	if a != nil {
		return a
	}
	return b
}
