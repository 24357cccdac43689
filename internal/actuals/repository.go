package actuals

import (
	"context"

	"github.com/gninraw7/psms/internal/shared"
)

type Repository interface {
	ListLines(ctx context.Context, tenant shared.Tenant, year int, filter LineFilter) ([]Line, error)
	UpsertLines(ctx context.Context, tenant shared.Tenant, year int, lines []Line, updatedBy string) (int, error)
	GroupTotals(ctx context.Context, tenant shared.Tenant, year int, group string) ([]GroupTotal, error)
}
