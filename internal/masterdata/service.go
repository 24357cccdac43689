package masterdata

import (
	"context"
	"fmt"

	"github.com/gninraw7/psms/internal/platform/httpx"
	"github.com/gninraw7/psms/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) OrgUnits(ctx context.Context, tenant shared.Tenant, activeOnly bool) ([]OrgUnit, error) {
	return s.repo.OrgUnits(ctx, tenant, activeOnly)
}

func (s *Service) SalesReps(ctx context.Context, tenant shared.Tenant) ([]SalesRep, error) {
	return s.repo.SalesReps(ctx, tenant)
}

func (s *Service) IndustryFields(ctx context.Context, tenant shared.Tenant, activeOnly bool) ([]IndustryField, error) {
	return s.repo.IndustryFields(ctx, tenant, activeOnly)
}

func (s *Service) ServiceCodes(ctx context.Context, tenant shared.Tenant, activeOnly bool) ([]ServiceCode, error) {
	return s.repo.ServiceCodes(ctx, tenant, activeOnly)
}

func (s *Service) Clients(ctx context.Context, tenant shared.Tenant, keyword string) ([]Client, error) {
	return s.repo.Clients(ctx, tenant, keyword)
}

func (s *Service) CommonCodes(ctx context.Context, tenant shared.Tenant, groupCode string) ([]CommonCode, error) {
	if groupCode == "" {
		return nil, fmt.Errorf("%w: group_code is required", httpx.ErrValidation)
	}
	return s.repo.CommonCodes(ctx, tenant, groupCode)
}
