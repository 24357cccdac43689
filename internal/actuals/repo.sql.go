package actuals

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gninraw7/psms/internal/platform/db"
	"github.com/gninraw7/psms/internal/platform/httpx"
	"github.com/gninraw7/psms/internal/shared"
)

type SQLRepository struct {
	pool *pgxpool.Pool
}

func NewSQLRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

const lineSelect = `
	SELECT
		sal.actual_line_id, sal.actual_year, sal.pipeline_id,
		sal.field_code, sal.field_name_snapshot,
		sal.service_code, sal.service_name_snapshot,
		sal.customer_id, sal.customer_name_snapshot,
		sal.ordering_party_id, sal.ordering_party_name_snapshot,
		sal.project_name_snapshot,
		sal.org_id, sal.org_name_snapshot,
		sal.manager_id, sal.manager_name_snapshot,
		sal.contract_date, sal.start_date, sal.end_date,
		COALESCE(sal.order_total,0), COALESCE(sal.profit_total,0),
		COALESCE(sal.m01_order,0), COALESCE(sal.m01_profit,0),
		COALESCE(sal.m02_order,0), COALESCE(sal.m02_profit,0),
		COALESCE(sal.m03_order,0), COALESCE(sal.m03_profit,0),
		COALESCE(sal.m04_order,0), COALESCE(sal.m04_profit,0),
		COALESCE(sal.m05_order,0), COALESCE(sal.m05_profit,0),
		COALESCE(sal.m06_order,0), COALESCE(sal.m06_profit,0),
		COALESCE(sal.m07_order,0), COALESCE(sal.m07_profit,0),
		COALESCE(sal.m08_order,0), COALESCE(sal.m08_profit,0),
		COALESCE(sal.m09_order,0), COALESCE(sal.m09_profit,0),
		COALESCE(sal.m10_order,0), COALESCE(sal.m10_profit,0),
		COALESCE(sal.m11_order,0), COALESCE(sal.m11_profit,0),
		COALESCE(sal.m12_order,0), COALESCE(sal.m12_profit,0)
	FROM sales_actual_line sal
	WHERE sal.company_cd = $1 AND sal.actual_year = $2`

func (r *SQLRepository) ListLines(ctx context.Context, tenant shared.Tenant, year int, filter LineFilter) ([]Line, error) {
	sql := lineSelect
	args := []interface{}{tenant.CompanyCode, year}

	if filter.OrgID != nil {
		args = append(args, *filter.OrgID)
		sql += fmt.Sprintf(" AND sal.org_id = $%d", len(args))
	}
	if filter.ManagerID != "" {
		args = append(args, filter.ManagerID)
		sql += fmt.Sprintf(" AND sal.manager_id = $%d", len(args))
	}
	if filter.FieldCode != "" {
		args = append(args, filter.FieldCode)
		sql += fmt.Sprintf(" AND sal.field_code = $%d", len(args))
	}
	if filter.ServiceCode != "" {
		args = append(args, filter.ServiceCode)
		sql += fmt.Sprintf(" AND sal.service_code = $%d", len(args))
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		n := len(args)
		sql += fmt.Sprintf(" AND (sal.project_name_snapshot LIKE $%d OR sal.customer_name_snapshot LIKE $%d OR sal.pipeline_id LIKE $%d)", n, n, n)
	}
	sql += " ORDER BY sal.pipeline_id"

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("actuals: list lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		dest := []interface{}{
			&l.ActualLineID, &l.ActualYear, &l.PipelineID,
			&l.FieldCode, &l.FieldName,
			&l.ServiceCode, &l.ServiceName,
			&l.CustomerID, &l.CustomerName,
			&l.OrderingPartyID, &l.OrderingPartyName,
			&l.ProjectName,
			&l.OrgID, &l.OrgName,
			&l.ManagerID, &l.ManagerName,
			&l.ContractDate, &l.StartDate, &l.EndDate,
			&l.OrderTotal, &l.ProfitTotal,
		}
		for _, cell := range l.monthCells() {
			dest = append(dest, cell)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("actuals: scan line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// UpsertLines writes the batch inside one transaction. One row exists
// per company, year and pipeline; conflicting rows keep stored
// dimension values when the incoming value is NULL.
func (r *SQLRepository) UpsertLines(ctx context.Context, tenant shared.Tenant, year int, lines []Line, updatedBy string) (int, error) {
	const upsert = `
		INSERT INTO sales_actual_line (
			company_cd, actual_year, pipeline_id,
			field_code, field_name_snapshot,
			service_code, service_name_snapshot,
			customer_id, customer_name_snapshot,
			ordering_party_id, ordering_party_name_snapshot,
			project_name_snapshot,
			org_id, org_name_snapshot,
			manager_id, manager_name_snapshot,
			contract_date, start_date, end_date,
			order_total, profit_total,
			m01_order, m01_profit, m02_order, m02_profit, m03_order, m03_profit,
			m04_order, m04_profit, m05_order, m05_profit, m06_order, m06_profit,
			m07_order, m07_profit, m08_order, m08_profit, m09_order, m09_profit,
			m10_order, m10_profit, m11_order, m11_profit, m12_order, m12_profit,
			created_by, updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21,
			$22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33,
			$34, $35, $36, $37, $38, $39, $40, $41, $42, $43, $44, $45,
			$46, $46
		)
		ON CONFLICT (company_cd, actual_year, pipeline_id) DO UPDATE SET
			field_code = COALESCE(EXCLUDED.field_code, sales_actual_line.field_code),
			field_name_snapshot = COALESCE(EXCLUDED.field_name_snapshot, sales_actual_line.field_name_snapshot),
			service_code = COALESCE(EXCLUDED.service_code, sales_actual_line.service_code),
			service_name_snapshot = COALESCE(EXCLUDED.service_name_snapshot, sales_actual_line.service_name_snapshot),
			customer_id = COALESCE(EXCLUDED.customer_id, sales_actual_line.customer_id),
			customer_name_snapshot = COALESCE(EXCLUDED.customer_name_snapshot, sales_actual_line.customer_name_snapshot),
			ordering_party_id = COALESCE(EXCLUDED.ordering_party_id, sales_actual_line.ordering_party_id),
			ordering_party_name_snapshot = COALESCE(EXCLUDED.ordering_party_name_snapshot, sales_actual_line.ordering_party_name_snapshot),
			project_name_snapshot = COALESCE(EXCLUDED.project_name_snapshot, sales_actual_line.project_name_snapshot),
			org_id = COALESCE(EXCLUDED.org_id, sales_actual_line.org_id),
			org_name_snapshot = COALESCE(EXCLUDED.org_name_snapshot, sales_actual_line.org_name_snapshot),
			manager_id = COALESCE(EXCLUDED.manager_id, sales_actual_line.manager_id),
			manager_name_snapshot = COALESCE(EXCLUDED.manager_name_snapshot, sales_actual_line.manager_name_snapshot),
			contract_date = EXCLUDED.contract_date,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			order_total = EXCLUDED.order_total,
			profit_total = EXCLUDED.profit_total,
			m01_order = EXCLUDED.m01_order, m01_profit = EXCLUDED.m01_profit,
			m02_order = EXCLUDED.m02_order, m02_profit = EXCLUDED.m02_profit,
			m03_order = EXCLUDED.m03_order, m03_profit = EXCLUDED.m03_profit,
			m04_order = EXCLUDED.m04_order, m04_profit = EXCLUDED.m04_profit,
			m05_order = EXCLUDED.m05_order, m05_profit = EXCLUDED.m05_profit,
			m06_order = EXCLUDED.m06_order, m06_profit = EXCLUDED.m06_profit,
			m07_order = EXCLUDED.m07_order, m07_profit = EXCLUDED.m07_profit,
			m08_order = EXCLUDED.m08_order, m08_profit = EXCLUDED.m08_profit,
			m09_order = EXCLUDED.m09_order, m09_profit = EXCLUDED.m09_profit,
			m10_order = EXCLUDED.m10_order, m10_profit = EXCLUDED.m10_profit,
			m11_order = EXCLUDED.m11_order, m11_profit = EXCLUDED.m11_profit,
			m12_order = EXCLUDED.m12_order, m12_profit = EXCLUDED.m12_profit,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()`

	saved := 0
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for i := range lines {
			l := &lines[i]
			args := []interface{}{
				tenant.CompanyCode, year, l.PipelineID,
				l.FieldCode, l.FieldName,
				l.ServiceCode, l.ServiceName,
				l.CustomerID, l.CustomerName,
				l.OrderingPartyID, l.OrderingPartyName,
				l.ProjectName,
				l.OrgID, l.OrgName,
				l.ManagerID, l.ManagerName,
				l.ContractDate, l.StartDate, l.EndDate,
				l.OrderTotal, l.ProfitTotal,
			}
			for _, cell := range l.monthCells() {
				args = append(args, *cell)
			}
			args = append(args, updatedBy)
			if _, err := tx.Exec(ctx, upsert, args...); err != nil {
				return fmt.Errorf("actuals: upsert line %s: %w", l.PipelineID, err)
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

var groupExpr = map[string]string{
	"org":      "COALESCE(NULLIF(sal.org_name_snapshot,''), NULLIF(o.org_name,''), '-')",
	"manager":  "COALESCE(NULLIF(sal.manager_name_snapshot,''), NULLIF(u.user_name,''), '-')",
	"field":    "COALESCE(NULLIF(sal.field_name_snapshot,''), NULLIF(f.field_name,''), '-')",
	"service":  "COALESCE(NULLIF(sal.service_name_snapshot,''), NULLIF(sc.display_name,''), NULLIF(sc.service_name,''), '-')",
	"customer": "COALESCE(NULLIF(sal.customer_name_snapshot,''), NULLIF(c.client_name,''), '-')",
}

// GroupTotals sums the stored year totals per dimension bucket. The
// report module does the heavy lifting for periodized views; this is
// the quick listing used by the actuals screen.
func (r *SQLRepository) GroupTotals(ctx context.Context, tenant shared.Tenant, year int, group string) ([]GroupTotal, error) {
	expr, ok := groupExpr[group]
	if !ok {
		return nil, fmt.Errorf("%w: invalid group %q", httpx.ErrValidation, group)
	}

	sql := fmt.Sprintf(`
		SELECT
			%s AS group_name,
			SUM(COALESCE(sal.order_total,0)),
			SUM(COALESCE(sal.profit_total,0))
		FROM sales_actual_line sal
		LEFT JOIN org_units o ON o.company_cd = sal.company_cd AND o.org_id = sal.org_id
		LEFT JOIN users u ON u.company_cd = sal.company_cd AND u.login_id = sal.manager_id
		LEFT JOIN industry_fields f ON f.company_cd = sal.company_cd AND f.field_code = sal.field_code
		LEFT JOIN service_codes sc ON sc.company_cd = sal.company_cd AND sc.service_code = sal.service_code
		LEFT JOIN clients c ON c.company_cd = sal.company_cd AND c.client_id = sal.customer_id
		WHERE sal.company_cd = $1 AND sal.actual_year = $2
		GROUP BY group_name
		ORDER BY group_name`, expr)

	rows, err := r.pool.Query(ctx, sql, tenant.CompanyCode, year)
	if err != nil {
		return nil, fmt.Errorf("actuals: group totals: %w", err)
	}
	defer rows.Close()

	var totals []GroupTotal
	for rows.Next() {
		var t GroupTotal
		if err := rows.Scan(&t.GroupName, &t.OrderTotal, &t.ProfitTotal); err != nil {
			return nil, fmt.Errorf("actuals: scan group total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
