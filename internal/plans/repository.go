package plans

import (
	"context"
	"time"

	"github.com/gninraw7/psms/internal/shared"
)

// HeaderPatch is a partial header update with dates already parsed.
// Nil fields are left untouched by the repository.
type HeaderPatch struct {
	Version   *string
	Status    *string
	BaseDate  *time.Time
	Remarks   *string
	UpdatedBy string
}

type Repository interface {
	ListHeaders(ctx context.Context, tenant shared.Tenant, filter HeaderFilter) (*HeaderPage, error)
	GetHeader(ctx context.Context, tenant shared.Tenant, planID int64) (*Header, error)
	HeaderExists(ctx context.Context, tenant shared.Tenant, year int, version string) (bool, error)
	InsertHeader(ctx context.Context, tenant shared.Tenant, h Header, createdBy string) (int64, error)
	UpdateHeader(ctx context.Context, tenant shared.Tenant, planID int64, patch HeaderPatch) error

	ListLines(ctx context.Context, tenant shared.Tenant, planID int64, filter LineFilter) ([]Line, error)
	MissingProjects(ctx context.Context, tenant shared.Tenant, planID int64, filter LineFilter) ([]CandidateProject, error)
	UpsertLines(ctx context.Context, tenant shared.Tenant, planID int64, lines []Line, updatedBy string) (int, error)
	DeleteLines(ctx context.Context, tenant shared.Tenant, planID int64, req DeleteLinesRequest) (int, error)
}
