package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gninraw7/psms/internal/shared"
)

// SQLRepository provides PostgreSQL backed aggregation.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewSQLRepository constructs a repository.
func NewSQLRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

// Bucket expressions per dimension. The NULLIF wrappers make empty snapshot
// strings fall through to the live name, matching ResolveLabel. Dimensions
// are validated against the closed enum before any SQL is assembled; user
// input never reaches an identifier position.
var planBucketExpr = map[Dimension]string{
	DimensionOrg:      "COALESCE(NULLIF(spl.org_name_snapshot,''), NULLIF(o.org_name,''), '-')",
	DimensionManager:  "COALESCE(NULLIF(spl.manager_name_snapshot,''), NULLIF(u.user_name,''), '-')",
	DimensionField:    "COALESCE(NULLIF(spl.field_name_snapshot,''), NULLIF(f.field_name,''), '-')",
	DimensionService:  "COALESCE(NULLIF(spl.service_name_snapshot,''), NULLIF(sc.display_name,''), NULLIF(sc.service_name,''), '-')",
	DimensionCustomer: "COALESCE(NULLIF(spl.customer_name_snapshot,''), NULLIF(c.client_name,''), '-')",
	DimensionPipeline: "spl.pipeline_id",
}

var actualBucketExpr = map[Dimension]string{
	DimensionOrg:      "COALESCE(NULLIF(sal.org_name_snapshot,''), NULLIF(o.org_name,''), '-')",
	DimensionManager:  "COALESCE(NULLIF(sal.manager_name_snapshot,''), NULLIF(u.user_name,''), '-')",
	DimensionField:    "COALESCE(NULLIF(sal.field_name_snapshot,''), NULLIF(f.field_name,''), '-')",
	DimensionService:  "COALESCE(NULLIF(sal.service_name_snapshot,''), NULLIF(sc.display_name,''), NULLIF(sc.service_name,''), '-')",
	DimensionCustomer: "COALESCE(NULLIF(sal.customer_name_snapshot,''), NULLIF(c.client_name,''), '-')",
	DimensionPipeline: "sal.pipeline_id",
}

// monthColumn renders the physical column for one month of a field family.
func monthColumn(alias string, kind FieldKind, month int) string {
	switch kind {
	case KindPlan:
		return fmt.Sprintf("%s.plan_m%02d", alias, month)
	case KindOrder:
		return fmt.Sprintf("%s.m%02d_order", alias, month)
	case KindProfit:
		return fmt.Sprintf("%s.m%02d_profit", alias, month)
	}
	return ""
}

// sumColumns compiles the declarative field specs into SELECT expressions.
func sumColumns(alias string, specs []FieldSpec) string {
	parts := make([]string, 0, len(specs))
	for _, spec := range specs {
		terms := make([]string, 0, len(spec.Months))
		for _, m := range spec.Months {
			terms = append(terms, fmt.Sprintf("COALESCE(%s,0)", monthColumn(alias, spec.Kind, m)))
		}
		parts = append(parts, fmt.Sprintf("SUM(%s) AS %s", strings.Join(terms, "+"), spec.Name))
	}
	return strings.Join(parts, ", ")
}

// PlanHeadersForYear returns every plan header for the year.
func (r *SQLRepository) PlanHeadersForYear(ctx context.Context, tenant shared.Tenant, year int) ([]PlanHeader, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT plan_id, plan_year, plan_version, status_code, COALESCE(remarks,''), updated_at
		FROM sales_plan
		WHERE company_cd = $1 AND plan_year = $2
		ORDER BY updated_at DESC, plan_id DESC`,
		tenant.CompanyCode, year)
	if err != nil {
		return nil, fmt.Errorf("report: plan headers: %w", err)
	}
	defer rows.Close()

	var headers []PlanHeader
	for rows.Next() {
		var h PlanHeader
		if err := rows.Scan(&h.PlanID, &h.PlanYear, &h.Version, &h.Status, &h.Remarks, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("report: scan plan header: %w", err)
		}
		headers = append(headers, h)
	}
	return headers, rows.Err()
}

// PlanAggregate sums monthly plan values per dimension bucket.
func (r *SQLRepository) PlanAggregate(ctx context.Context, tenant shared.Tenant, planIDs []int64, dim Dimension, period Period, f Filter) ([]AggRow, error) {
	if len(planIDs) == 0 {
		return nil, nil
	}
	bucket, ok := planBucketExpr[dim]
	if !ok {
		return nil, fmt.Errorf("report: invalid dimension %q", dim)
	}
	specs := PlanFields(period)
	if len(specs) == 0 {
		return nil, fmt.Errorf("report: invalid period %q", period)
	}

	sql := fmt.Sprintf(`
		SELECT %s AS group_name, %s
		FROM sales_plan_line spl
		LEFT JOIN org_units o ON o.company_cd = spl.company_cd AND o.org_id = spl.org_id
		LEFT JOIN users u ON u.company_cd = spl.company_cd AND u.login_id = spl.manager_id
		LEFT JOIN industry_fields f ON f.company_cd = spl.company_cd AND f.field_code = spl.field_code
		LEFT JOIN service_codes sc ON sc.company_cd = spl.company_cd AND sc.service_code = spl.service_code
		LEFT JOIN clients c ON c.company_cd = spl.company_cd AND c.client_id = spl.customer_id
		WHERE spl.company_cd = $1 AND spl.plan_id = ANY($2)`,
		bucket, sumColumns("spl", specs))

	args := []interface{}{tenant.CompanyCode, planIDs}
	sql, args = appendFilter(sql, args, "spl", f)
	sql += " GROUP BY group_name ORDER BY group_name"

	return r.queryAggRows(ctx, sql, args, specs)
}

// ActualAggregate sums monthly order/profit values per dimension bucket.
func (r *SQLRepository) ActualAggregate(ctx context.Context, tenant shared.Tenant, year int, dim Dimension, period Period, metric Metric, f Filter) ([]AggRow, error) {
	bucket, ok := actualBucketExpr[dim]
	if !ok {
		return nil, fmt.Errorf("report: invalid dimension %q", dim)
	}
	specs := ActualFields(period, metric)
	if len(specs) == 0 {
		return nil, fmt.Errorf("report: invalid period %q", period)
	}

	sql := fmt.Sprintf(`
		SELECT %s AS group_name, %s
		FROM sales_actual_line sal
		LEFT JOIN org_units o ON o.company_cd = sal.company_cd AND o.org_id = sal.org_id
		LEFT JOIN users u ON u.company_cd = sal.company_cd AND u.login_id = sal.manager_id
		LEFT JOIN industry_fields f ON f.company_cd = sal.company_cd AND f.field_code = sal.field_code
		LEFT JOIN service_codes sc ON sc.company_cd = sal.company_cd AND sc.service_code = sal.service_code
		LEFT JOIN clients c ON c.company_cd = sal.company_cd AND c.client_id = sal.customer_id
		WHERE sal.company_cd = $1 AND sal.actual_year = $2`,
		bucket, sumColumns("sal", specs))

	args := []interface{}{tenant.CompanyCode, year}
	sql, args = appendFilter(sql, args, "sal", f)
	sql += " GROUP BY group_name ORDER BY group_name"

	return r.queryAggRows(ctx, sql, args, specs)
}

func appendFilter(sql string, args []interface{}, alias string, f Filter) (string, []interface{}) {
	if f.OrgID != "" {
		args = append(args, f.OrgID)
		sql += fmt.Sprintf(" AND %s.org_id = $%d", alias, len(args))
	}
	if f.ManagerID != "" {
		args = append(args, f.ManagerID)
		sql += fmt.Sprintf(" AND %s.manager_id = $%d", alias, len(args))
	}
	return sql, args
}

func (r *SQLRepository) queryAggRows(ctx context.Context, sql string, args []interface{}, specs []FieldSpec) ([]AggRow, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("report: aggregate query: %w", err)
	}
	defer rows.Close()

	var result []AggRow
	for rows.Next() {
		var label string
		sums := make([]*float64, len(specs))
		dest := make([]interface{}, 0, len(specs)+1)
		dest = append(dest, &label)
		for i := range sums {
			dest = append(dest, &sums[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("report: scan aggregate row: %w", err)
		}
		values := make(map[string]float64, len(specs))
		for i, spec := range specs {
			if sums[i] != nil {
				values[spec.Name] = *sums[i]
			} else {
				values[spec.Name] = 0
			}
		}
		result = append(result, AggRow{GroupName: label, Values: values})
	}
	return result, rows.Err()
}

// OrgNames resolves org unit names for target labels.
func (r *SQLRepository) OrgNames(ctx context.Context, tenant shared.Tenant, ids []string) (map[string]string, error) {
	return r.nameMap(ctx, `SELECT org_id, org_name FROM org_units WHERE company_cd = $1 AND org_id = ANY($2)`, tenant, ids)
}

// ManagerNames resolves user names for target labels.
func (r *SQLRepository) ManagerNames(ctx context.Context, tenant shared.Tenant, ids []string) (map[string]string, error) {
	return r.nameMap(ctx, `SELECT login_id, user_name FROM users WHERE company_cd = $1 AND login_id = ANY($2)`, tenant, ids)
}

func (r *SQLRepository) nameMap(ctx context.Context, sql string, tenant shared.Tenant, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	rows, err := r.pool.Query(ctx, sql, tenant.CompanyCode, ids)
	if err != nil {
		return nil, fmt.Errorf("report: name lookup: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string, len(ids))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("report: scan name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
