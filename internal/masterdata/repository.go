package masterdata

import (
	"context"

	"github.com/gninraw7/psms/internal/shared"
)

type Repository interface {
	OrgUnits(ctx context.Context, tenant shared.Tenant, activeOnly bool) ([]OrgUnit, error)
	SalesReps(ctx context.Context, tenant shared.Tenant) ([]SalesRep, error)
	IndustryFields(ctx context.Context, tenant shared.Tenant, activeOnly bool) ([]IndustryField, error)
	ServiceCodes(ctx context.Context, tenant shared.Tenant, activeOnly bool) ([]ServiceCode, error)
	Clients(ctx context.Context, tenant shared.Tenant, keyword string) ([]Client, error)
	CommonCodes(ctx context.Context, tenant shared.Tenant, groupCode string) ([]CommonCode, error)
}
