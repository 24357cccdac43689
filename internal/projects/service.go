package projects

import (
	"context"
	"fmt"

	"github.com/gninraw7/psms/internal/shared"
)

// Service exposes read access to the project pipeline. Plan and actual
// line writes also go through it to capture dimension snapshots.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, tenant shared.Tenant, filter Filter) ([]Project, error) {
	projects, err := s.repo.List(ctx, tenant, filter)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *Service) Get(ctx context.Context, tenant shared.Tenant, pipelineID string) (*Project, error) {
	return s.repo.Get(ctx, tenant, pipelineID)
}

// SnapshotMap returns the current dimension names keyed by pipeline id.
func (s *Service) SnapshotMap(ctx context.Context, tenant shared.Tenant, pipelineIDs []string) (map[string]Snapshot, error) {
	return s.repo.SnapshotMap(ctx, tenant, pipelineIDs)
}
