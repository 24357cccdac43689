package masterdata

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gninraw7/psms/internal/shared"
)

type SQLRepository struct {
	pool *pgxpool.Pool
}

func NewSQLRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

func (r *SQLRepository) OrgUnits(ctx context.Context, tenant shared.Tenant, activeOnly bool) ([]OrgUnit, error) {
	sql := `
		SELECT u.org_id, u.org_name, u.parent_id, p.org_name AS parent_name,
			u.org_type, COALESCE(u.sort_order, 0), COALESCE(u.is_use, true), u.updated_at
		FROM org_units u
		LEFT JOIN org_units p ON p.company_cd = u.company_cd AND p.org_id = u.parent_id
		WHERE u.company_cd = $1`
	if activeOnly {
		sql += " AND COALESCE(u.is_use, true)"
	}
	sql += " ORDER BY COALESCE(u.sort_order, 0), u.org_name"

	return collect(ctx, r.pool, sql, []interface{}{tenant.CompanyCode}, func(rows pgx.Rows) (OrgUnit, error) {
		var o OrgUnit
		err := rows.Scan(&o.OrgID, &o.OrgName, &o.ParentID, &o.ParentName, &o.OrgType, &o.SortOrder, &o.IsUse, &o.UpdatedAt)
		return o, err
	})
}

// SalesReps lists active users eligible as pipeline managers.
func (r *SQLRepository) SalesReps(ctx context.Context, tenant shared.Tenant) ([]SalesRep, error) {
	sql := `
		SELECT login_id, user_name, department
		FROM users
		WHERE company_cd = $1
			AND status = 'ACTIVE'
			AND (is_sales_rep IS NULL OR is_sales_rep)
		ORDER BY user_name`

	return collect(ctx, r.pool, sql, []interface{}{tenant.CompanyCode}, func(rows pgx.Rows) (SalesRep, error) {
		var s SalesRep
		err := rows.Scan(&s.LoginID, &s.UserName, &s.Department)
		return s, err
	})
}

func (r *SQLRepository) IndustryFields(ctx context.Context, tenant shared.Tenant, activeOnly bool) ([]IndustryField, error) {
	sql := `
		SELECT field_code, field_name, COALESCE(sort_order, 0), COALESCE(is_use, true), updated_at
		FROM industry_fields
		WHERE company_cd = $1`
	if activeOnly {
		sql += " AND COALESCE(is_use, true)"
	}
	sql += " ORDER BY COALESCE(sort_order, 0), field_code"

	return collect(ctx, r.pool, sql, []interface{}{tenant.CompanyCode}, func(rows pgx.Rows) (IndustryField, error) {
		var f IndustryField
		err := rows.Scan(&f.FieldCode, &f.FieldName, &f.SortOrder, &f.IsUse, &f.UpdatedAt)
		return f, err
	})
}

func (r *SQLRepository) ServiceCodes(ctx context.Context, tenant shared.Tenant, activeOnly bool) ([]ServiceCode, error) {
	sql := `
		SELECT s.service_code, s.service_name, s.display_name, s.parent_code,
			COALESCE(s.sort_order, 0), COALESCE(s.is_use, true), s.updated_at
		FROM service_codes s
		WHERE s.company_cd = $1`
	if activeOnly {
		sql += " AND COALESCE(s.is_use, true)"
	}
	sql += " ORDER BY COALESCE(s.sort_order, 0), s.service_code"

	return collect(ctx, r.pool, sql, []interface{}{tenant.CompanyCode}, func(rows pgx.Rows) (ServiceCode, error) {
		var s ServiceCode
		err := rows.Scan(&s.ServiceCode, &s.ServiceName, &s.DisplayName, &s.ParentCode, &s.SortOrder, &s.IsUse, &s.UpdatedAt)
		return s, err
	})
}

func (r *SQLRepository) Clients(ctx context.Context, tenant shared.Tenant, keyword string) ([]Client, error) {
	sql := `
		SELECT client_id, client_name, business_number, COALESCE(is_active, true)
		FROM clients
		WHERE company_cd = $1`
	args := []interface{}{tenant.CompanyCode}
	if keyword != "" {
		args = append(args, "%"+keyword+"%")
		sql += fmt.Sprintf(" AND (client_name LIKE $%d OR business_number LIKE $%d)", len(args), len(args))
	}
	sql += " ORDER BY client_name"

	return collect(ctx, r.pool, sql, args, func(rows pgx.Rows) (Client, error) {
		var c Client
		err := rows.Scan(&c.ClientID, &c.ClientName, &c.BusinessNumber, &c.IsActive)
		return c, err
	})
}

func (r *SQLRepository) CommonCodes(ctx context.Context, tenant shared.Tenant, groupCode string) ([]CommonCode, error) {
	sql := `
		SELECT group_code, code, code_name, COALESCE(sort_order, 0)
		FROM comm_code
		WHERE company_cd = $1 AND group_code = $2
		ORDER BY COALESCE(sort_order, 0), code`

	return collect(ctx, r.pool, sql, []interface{}{tenant.CompanyCode, groupCode}, func(rows pgx.Rows) (CommonCode, error) {
		var c CommonCode
		err := rows.Scan(&c.GroupCode, &c.Code, &c.CodeName, &c.SortOrder)
		return c, err
	})
}

func collect[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args []interface{}, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("masterdata: query: %w", err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("masterdata: scan: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
