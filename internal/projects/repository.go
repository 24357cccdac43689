package projects

import (
	"context"

	"github.com/gninraw7/psms/internal/shared"
)

// Filter narrows project listings. Zero values mean "no filter".
type Filter struct {
	OrgID       *int64
	ManagerID   string
	FieldCode   string
	ServiceCode string
	Stage       string
	Keyword     string
}

type Repository interface {
	List(ctx context.Context, tenant shared.Tenant, filter Filter) ([]Project, error)
	Get(ctx context.Context, tenant shared.Tenant, pipelineID string) (*Project, error)
	SnapshotMap(ctx context.Context, tenant shared.Tenant, pipelineIDs []string) (map[string]Snapshot, error)
}
