package plans

import (
	"context"
	"fmt"
	"time"

	"github.com/gninraw7/psms/internal/platform/httpx"
	"github.com/gninraw7/psms/internal/projects"
	"github.com/gninraw7/psms/internal/shared"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
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

func (s *Service) ListHeaders(ctx context.Context, tenant shared.Tenant, filter HeaderFilter) (*HeaderPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	return s.repo.ListHeaders(ctx, tenant, filter)
}

func (s *Service) GetHeader(ctx context.Context, tenant shared.Tenant, planID int64) (*Header, error) {
	return s.repo.GetHeader(ctx, tenant, planID)
}

func (s *Service) CreateHeader(ctx context.Context, tenant shared.Tenant, req CreateHeaderRequest) (*Header, error) {
	if req.Version == "" {
		req.Version = "v1"
	}
	if req.Status == "" {
		req.Status = StatusDraft
	}
	if req.CreatedBy == "" {
		req.CreatedBy = "system"
	}

	exists, err := s.repo.HeaderExists(ctx, tenant, req.PlanYear, req.Version)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: plan %d/%s already exists", httpx.ErrDuplicate, req.PlanYear, req.Version)
	}

	baseDate, err := parseDate(req.BaseDate)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.InsertHeader(ctx, tenant, Header{
		PlanYear: req.PlanYear,
		Version:  req.Version,
		Status:   req.Status,
		BaseDate: baseDate,
		Remarks:  req.Remarks,
	}, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	return s.repo.GetHeader(ctx, tenant, id)
}

// UpdateHeader patches a header. Status transitions go through here as
// well; freezing only affects line writes, the header itself stays
// editable so a FINAL plan can be reopened.
func (s *Service) UpdateHeader(ctx context.Context, tenant shared.Tenant, planID int64, req UpdateHeaderRequest) (*Header, error) {
	if req.UpdatedBy == "" {
		req.UpdatedBy = "system"
	}
	baseDate, err := parseDate(req.BaseDate)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpdateHeader(ctx, tenant, planID, HeaderPatch{
		Version:   req.Version,
		Status:    req.Status,
		BaseDate:  baseDate,
		Remarks:   req.Remarks,
		UpdatedBy: req.UpdatedBy,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetHeader(ctx, tenant, planID)
}

func (s *Service) ListLines(ctx context.Context, tenant shared.Tenant, planID int64, filter LineFilter) ([]Line, error) {
	return s.repo.ListLines(ctx, tenant, planID, filter)
}

func (s *Service) MissingProjects(ctx context.Context, tenant shared.Tenant, planID int64, filter LineFilter) ([]CandidateProject, error) {
	if _, err := s.repo.GetHeader(ctx, tenant, planID); err != nil {
		return nil, err
	}
	return s.repo.MissingProjects(ctx, tenant, planID, filter)
}

// SaveLines batch-upserts lines. Dimension ids missing from the request
// are taken from the live project, dimension names are always
// snapshotted, and a missing plan_total is recomputed from the months.
func (s *Service) SaveLines(ctx context.Context, tenant shared.Tenant, planID int64, req SaveLinesRequest) (int, error) {
	if planID != req.PlanID {
		return 0, fmt.Errorf("%w: plan_id mismatch", httpx.ErrValidation)
	}
	if err := s.ensureEditable(ctx, tenant, planID); err != nil {
		return 0, err
	}

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
		line, err := buildLine(planID, item, snapshots[item.PipelineID])
		if err != nil {
			return 0, err
		}
		lines = append(lines, line)
	}

	return s.repo.UpsertLines(ctx, tenant, planID, lines, req.UpdatedBy)
}

func (s *Service) DeleteLines(ctx context.Context, tenant shared.Tenant, planID int64, req DeleteLinesRequest) (int, error) {
	if err := s.ensureEditable(ctx, tenant, planID); err != nil {
		return 0, err
	}
	return s.repo.DeleteLines(ctx, tenant, planID, req)
}

func (s *Service) ensureEditable(ctx context.Context, tenant shared.Tenant, planID int64) error {
	header, err := s.repo.GetHeader(ctx, tenant, planID)
	if err != nil {
		return err
	}
	if !header.Editable() {
		return fmt.Errorf("%w: plan %d is %s", httpx.ErrForbidden, planID, header.Status)
	}
	return nil
}

func buildLine(planID int64, item LineItem, snap projects.Snapshot) (Line, error) {
	contractDate, err := parseDate(item.ContractDate)
	if err != nil {
		return Line{}, err
	}
	startDate, err := parseDate(item.StartDate)
	if err != nil {
		return Line{}, err
	}
	endDate, err := parseDate(item.EndDate)
	if err != nil {
		return Line{}, err
	}

	planTotal := item.MonthSum()
	if item.PlanTotal != nil {
		planTotal = *item.PlanTotal
	}

	return Line{
		PlanID:            planID,
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
		ContractPlanDate:  contractDate,
		StartPlanDate:     startDate,
		EndPlanDate:       endDate,
		PlanTotal:         planTotal,
		M01:               item.M01, M02: item.M02, M03: item.M03, M04: item.M04,
		M05: item.M05, M06: item.M06, M07: item.M07, M08: item.M08,
		M09: item.M09, M10: item.M10, M11: item.M11, M12: item.M12,
	}, nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
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
