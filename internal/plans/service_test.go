package plans

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gninraw7/psms/internal/platform/httpx"
	"github.com/gninraw7/psms/internal/projects"
	"github.com/gninraw7/psms/internal/shared"
)

// ============================================================
// Mocks
// ============================================================

type mockRepository struct {
	headers map[int64]*Header
	nextID  int64

	lastFilter  HeaderFilter
	savedLines  []Line
	savedBy     string
	deleteCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{headers: make(map[int64]*Header), nextID: 1}
}

func (m *mockRepository) ListHeaders(_ context.Context, _ shared.Tenant, filter HeaderFilter) (*HeaderPage, error) {
	m.lastFilter = filter
	return &HeaderPage{Items: []Header{}, Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (m *mockRepository) GetHeader(_ context.Context, _ shared.Tenant, planID int64) (*Header, error) {
	h, ok := m.headers[planID]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *h
	return &copied, nil
}

func (m *mockRepository) HeaderExists(_ context.Context, _ shared.Tenant, year int, version string) (bool, error) {
	for _, h := range m.headers {
		if h.PlanYear == year && h.Version == version {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) InsertHeader(_ context.Context, _ shared.Tenant, h Header, _ string) (int64, error) {
	id := m.nextID
	m.nextID++
	h.PlanID = id
	m.headers[id] = &h
	return id, nil
}

func (m *mockRepository) UpdateHeader(_ context.Context, _ shared.Tenant, planID int64, patch HeaderPatch) error {
	h, ok := m.headers[planID]
	if !ok {
		return httpx.ErrNotFound
	}
	if patch.Version != nil {
		h.Version = *patch.Version
	}
	if patch.Status != nil {
		h.Status = *patch.Status
	}
	if patch.BaseDate != nil {
		h.BaseDate = patch.BaseDate
	}
	if patch.Remarks != nil {
		h.Remarks = patch.Remarks
	}
	return nil
}

func (m *mockRepository) ListLines(_ context.Context, _ shared.Tenant, _ int64, _ LineFilter) ([]Line, error) {
	return m.savedLines, nil
}

func (m *mockRepository) MissingProjects(_ context.Context, _ shared.Tenant, _ int64, _ LineFilter) ([]CandidateProject, error) {
	return nil, nil
}

func (m *mockRepository) UpsertLines(_ context.Context, _ shared.Tenant, _ int64, lines []Line, updatedBy string) (int, error) {
	m.savedLines = lines
	m.savedBy = updatedBy
	return len(lines), nil
}

func (m *mockRepository) DeleteLines(_ context.Context, _ shared.Tenant, _ int64, req DeleteLinesRequest) (int, error) {
	m.deleteCalls++
	return len(req.PlanLineIDs) + len(req.PipelineIDs), nil
}

type mockSnapshots struct {
	snapshots map[string]projects.Snapshot
	lastIDs   []string
}

func (m *mockSnapshots) SnapshotMap(_ context.Context, _ shared.Tenant, pipelineIDs []string) (map[string]projects.Snapshot, error) {
	m.lastIDs = pipelineIDs
	return m.snapshots, nil
}

func planTenant() shared.Tenant { return shared.Tenant{CompanyCode: "C100"} }

func strPtr(s string) *string     { return &s }
func intPtr(i int64) *int64       { return &i }
func floatPtr(f float64) *float64 { return &f }

func seedHeader(repo *mockRepository, status string) int64 {
	id, _ := repo.InsertHeader(context.Background(), planTenant(), Header{PlanYear: 2025, Version: "v1", Status: status}, "tester")
	return id
}

// ============================================================
// Headers
// ============================================================

func TestListHeadersClampsPaging(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, &mockSnapshots{})

	_, err := svc.ListHeaders(context.Background(), planTenant(), HeaderFilter{Page: 0, PageSize: 9999})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, maxPageSize, repo.lastFilter.PageSize)

	_, err = svc.ListHeaders(context.Background(), planTenant(), HeaderFilter{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.lastFilter.Page)
	assert.Equal(t, defaultPageSize, repo.lastFilter.PageSize)
}

func TestCreateHeaderDefaults(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, &mockSnapshots{})

	h, err := svc.CreateHeader(context.Background(), planTenant(), CreateHeaderRequest{PlanYear: 2025})
	require.NoError(t, err)
	assert.Equal(t, "v1", h.Version)
	assert.Equal(t, StatusDraft, h.Status)
}

func TestCreateHeaderDuplicate(t *testing.T) {
	repo := newMockRepository()
	seedHeader(repo, StatusDraft)
	svc := NewService(repo, &mockSnapshots{})

	_, err := svc.CreateHeader(context.Background(), planTenant(), CreateHeaderRequest{PlanYear: 2025, Version: "v1"})
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestCreateHeaderParsesBaseDate(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, &mockSnapshots{})

	h, err := svc.CreateHeader(context.Background(), planTenant(), CreateHeaderRequest{
		PlanYear: 2025, Version: "v2", BaseDate: strPtr("2025-01-15"),
	})
	require.NoError(t, err)
	require.NotNil(t, h.BaseDate)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), *h.BaseDate)
}

func TestUpdateHeaderReopensFinalPlan(t *testing.T) {
	repo := newMockRepository()
	id := seedHeader(repo, StatusFinal)
	svc := NewService(repo, &mockSnapshots{})

	// The header itself is never frozen; moving FINAL back to DRAFT is how
	// a plan gets reopened.
	h, err := svc.UpdateHeader(context.Background(), planTenant(), id, UpdateHeaderRequest{Status: strPtr(StatusDraft)})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, h.Status)
}

func TestUpdateHeaderNotFound(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, &mockSnapshots{})

	_, err := svc.UpdateHeader(context.Background(), planTenant(), 42, UpdateHeaderRequest{})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

// ============================================================
// Lines
// ============================================================

func TestSaveLinesPlanIDMismatch(t *testing.T) {
	repo := newMockRepository()
	id := seedHeader(repo, StatusDraft)
	svc := NewService(repo, &mockSnapshots{})

	_, err := svc.SaveLines(context.Background(), planTenant(), id, SaveLinesRequest{
		PlanID: id + 1,
		Lines:  []LineItem{{PipelineID: "P1"}},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSaveLinesFrozenPlan(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, &mockSnapshots{})

	for _, status := range []string{StatusFinal, StatusCancelled} {
		id := seedHeader(repo, status)
		_, err := svc.SaveLines(context.Background(), planTenant(), id, SaveLinesRequest{
			PlanID: id,
			Lines:  []LineItem{{PipelineID: "P1"}},
		})
		assert.ErrorIs(t, err, httpx.ErrForbidden, status)
	}
}

func TestSaveLinesFillsFromSnapshot(t *testing.T) {
	repo := newMockRepository()
	id := seedHeader(repo, StatusDraft)
	snaps := &mockSnapshots{snapshots: map[string]projects.Snapshot{
		"P1": {
			PipelineID:   "P1",
			ProjectName:  strPtr("차세대 시스템"),
			FieldCode:    strPtr("F01"),
			FieldName:    strPtr("금융"),
			ServiceCode:  strPtr("SVC1"),
			ServiceName:  strPtr("SI"),
			CustomerID:   intPtr(7),
			CustomerName: strPtr("고객사"),
			OrgID:        intPtr(10),
			OrgName:      strPtr("영업1팀"),
			ManagerID:    strPtr("u1"),
			ManagerName:  strPtr("김담당"),
		},
	}}
	svc := NewService(repo, snaps)

	n, err := svc.SaveLines(context.Background(), planTenant(), id, SaveLinesRequest{
		PlanID:    id,
		UpdatedBy: "tester",
		Lines: []LineItem{{
			PipelineID:  "P1",
			ServiceCode: strPtr("SVC-OVERRIDE"),
			M01:         100, M02: 200,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"P1"}, snaps.lastIDs)
	assert.Equal(t, "tester", repo.savedBy)

	require.Len(t, repo.savedLines, 1)
	line := repo.savedLines[0]

	// Ids fall back to the snapshot unless the request overrides them;
	// names always come from the snapshot.
	assert.Equal(t, "SVC-OVERRIDE", *line.ServiceCode)
	assert.Equal(t, "F01", *line.FieldCode)
	assert.Equal(t, "금융", *line.FieldName)
	assert.Equal(t, int64(7), *line.CustomerID)
	assert.Equal(t, "고객사", *line.CustomerName)
	assert.Equal(t, "차세대 시스템", *line.ProjectName)
	assert.Equal(t, "김담당", *line.ManagerName)

	// Missing plan_total is recomputed from the months.
	assert.Equal(t, 300.0, line.PlanTotal)
}

func TestSaveLinesKeepsExplicitTotal(t *testing.T) {
	repo := newMockRepository()
	id := seedHeader(repo, StatusDraft)
	svc := NewService(repo, &mockSnapshots{})

	_, err := svc.SaveLines(context.Background(), planTenant(), id, SaveLinesRequest{
		PlanID: id,
		Lines:  []LineItem{{PipelineID: "P1", PlanTotal: floatPtr(999), M01: 100}},
	})
	require.NoError(t, err)
	assert.Equal(t, 999.0, repo.savedLines[0].PlanTotal)
}

func TestSaveLinesInvalidDate(t *testing.T) {
	repo := newMockRepository()
	id := seedHeader(repo, StatusDraft)
	svc := NewService(repo, &mockSnapshots{})

	_, err := svc.SaveLines(context.Background(), planTenant(), id, SaveLinesRequest{
		PlanID: id,
		Lines:  []LineItem{{PipelineID: "P1", ContractDate: strPtr("2025/01/01")}},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteLinesFrozenPlan(t *testing.T) {
	repo := newMockRepository()
	id := seedHeader(repo, StatusFinal)
	svc := NewService(repo, &mockSnapshots{})

	_, err := svc.DeleteLines(context.Background(), planTenant(), id, DeleteLinesRequest{PlanLineIDs: []int64{1}})
	assert.ErrorIs(t, err, httpx.ErrForbidden)
	assert.Equal(t, 0, repo.deleteCalls)
}

func TestDeleteLinesDraftPlan(t *testing.T) {
	repo := newMockRepository()
	id := seedHeader(repo, StatusDraft)
	svc := NewService(repo, &mockSnapshots{})

	n, err := svc.DeleteLines(context.Background(), planTenant(), id, DeleteLinesRequest{PipelineIDs: []string{"P1", "P2"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
