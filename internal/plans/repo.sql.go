package plans

import (
	"context"
	"errors"
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

func (r *SQLRepository) ListHeaders(ctx context.Context, tenant shared.Tenant, filter HeaderFilter) (*HeaderPage, error) {
	where := " FROM sales_plan sp WHERE sp.company_cd = $1"
	args := []interface{}{tenant.CompanyCode}

	if filter.PlanYear != nil {
		args = append(args, *filter.PlanYear)
		where += fmt.Sprintf(" AND sp.plan_year = $%d", len(args))
	}
	if filter.Version != "" {
		args = append(args, "%"+filter.Version+"%")
		where += fmt.Sprintf(" AND sp.plan_version LIKE $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND sp.status_code = $%d", len(args))
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		where += fmt.Sprintf(" AND (sp.remarks LIKE $%d OR sp.plan_version LIKE $%d)", len(args), len(args))
	}

	page := &HeaderPage{Page: filter.Page, PageSize: filter.PageSize, Items: []Header{}}

	statsSQL := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status_code = 'DRAFT'),
			COUNT(*) FILTER (WHERE status_code = 'FINAL'),
			MAX(plan_year)` + where
	if err := r.pool.QueryRow(ctx, statsSQL, args...).Scan(
		&page.Stats.Total, &page.Stats.Draft, &page.Stats.Final, &page.Stats.LatestYear,
	); err != nil {
		return nil, fmt.Errorf("plans: header stats: %w", err)
	}
	page.Total = page.Stats.Total
	page.TotalPages = (page.Total + filter.PageSize - 1) / filter.PageSize

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	listSQL := fmt.Sprintf(`
		SELECT sp.plan_id, sp.plan_year, sp.plan_version, sp.status_code, sp.base_date, sp.remarks, sp.created_at, sp.updated_at`+
		where+" ORDER BY sp.plan_year DESC, sp.plan_version DESC LIMIT $%d OFFSET $%d",
		len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("plans: list headers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h Header
		if err := rows.Scan(&h.PlanID, &h.PlanYear, &h.Version, &h.Status, &h.BaseDate, &h.Remarks, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("plans: scan header: %w", err)
		}
		page.Items = append(page.Items, h)
	}
	return page, rows.Err()
}

func (r *SQLRepository) GetHeader(ctx context.Context, tenant shared.Tenant, planID int64) (*Header, error) {
	var h Header
	err := r.pool.QueryRow(ctx, `
		SELECT plan_id, plan_year, plan_version, status_code, base_date, remarks, created_at, updated_at
		FROM sales_plan
		WHERE company_cd = $1 AND plan_id = $2`,
		tenant.CompanyCode, planID,
	).Scan(&h.PlanID, &h.PlanYear, &h.Version, &h.Status, &h.BaseDate, &h.Remarks, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: plan %d", httpx.ErrNotFound, planID)
	}
	if err != nil {
		return nil, fmt.Errorf("plans: get header: %w", err)
	}
	return &h, nil
}

func (r *SQLRepository) HeaderExists(ctx context.Context, tenant shared.Tenant, year int, version string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM sales_plan
			WHERE company_cd = $1 AND plan_year = $2 AND plan_version = $3
		)`,
		tenant.CompanyCode, year, version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("plans: header exists: %w", err)
	}
	return exists, nil
}

func (r *SQLRepository) InsertHeader(ctx context.Context, tenant shared.Tenant, h Header, createdBy string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO sales_plan (
			company_cd, plan_year, plan_version, status_code, base_date, remarks, created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING plan_id`,
		tenant.CompanyCode, h.PlanYear, h.Version, h.Status, h.BaseDate, h.Remarks, createdBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("plans: insert header: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) UpdateHeader(ctx context.Context, tenant shared.Tenant, planID int64, patch HeaderPatch) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sales_plan
		SET
			plan_version = COALESCE($3, plan_version),
			status_code = COALESCE($4, status_code),
			base_date = COALESCE($5, base_date),
			remarks = COALESCE($6, remarks),
			updated_by = $7,
			updated_at = NOW()
		WHERE company_cd = $1 AND plan_id = $2`,
		tenant.CompanyCode, planID,
		patch.Version, patch.Status, patch.BaseDate, patch.Remarks, patch.UpdatedBy)
	if err != nil {
		return fmt.Errorf("plans: update header: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: plan %d", httpx.ErrNotFound, planID)
	}
	return nil
}

const lineSelect = `
	SELECT
		spl.plan_line_id, spl.plan_id, spl.pipeline_id,
		spl.field_code, spl.field_name_snapshot,
		spl.service_code, spl.service_name_snapshot,
		spl.customer_id, spl.customer_name_snapshot,
		spl.ordering_party_id, spl.ordering_party_name_snapshot,
		spl.project_name_snapshot,
		spl.org_id, spl.org_name_snapshot,
		spl.manager_id, spl.manager_name_snapshot,
		spl.contract_plan_date, spl.start_plan_date, spl.end_plan_date,
		COALESCE(spl.plan_total, 0),
		COALESCE(spl.plan_m01,0), COALESCE(spl.plan_m02,0), COALESCE(spl.plan_m03,0),
		COALESCE(spl.plan_m04,0), COALESCE(spl.plan_m05,0), COALESCE(spl.plan_m06,0),
		COALESCE(spl.plan_m07,0), COALESCE(spl.plan_m08,0), COALESCE(spl.plan_m09,0),
		COALESCE(spl.plan_m10,0), COALESCE(spl.plan_m11,0), COALESCE(spl.plan_m12,0)
	FROM sales_plan_line spl
	WHERE spl.company_cd = $1 AND spl.plan_id = $2`

func (r *SQLRepository) ListLines(ctx context.Context, tenant shared.Tenant, planID int64, filter LineFilter) ([]Line, error) {
	sql := lineSelect
	args := []interface{}{tenant.CompanyCode, planID}
	sql, args = appendLineFilter(sql, args, "spl", filter,
		"(spl.project_name_snapshot LIKE $%d OR spl.customer_name_snapshot LIKE $%d OR spl.pipeline_id LIKE $%d)")
	sql += " ORDER BY spl.pipeline_id"

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("plans: list lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		dest := []interface{}{
			&l.PlanLineID, &l.PlanID, &l.PipelineID,
			&l.FieldCode, &l.FieldName,
			&l.ServiceCode, &l.ServiceName,
			&l.CustomerID, &l.CustomerName,
			&l.OrderingPartyID, &l.OrderingPartyName,
			&l.ProjectName,
			&l.OrgID, &l.OrgName,
			&l.ManagerID, &l.ManagerName,
			&l.ContractPlanDate, &l.StartPlanDate, &l.EndPlanDate,
			&l.PlanTotal,
		}
		for _, m := range l.months() {
			dest = append(dest, m)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("plans: scan line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// MissingProjects returns pipelines matching the filter that the plan
// has no line for yet.
func (r *SQLRepository) MissingProjects(ctx context.Context, tenant shared.Tenant, planID int64, filter LineFilter) ([]CandidateProject, error) {
	sql := `
		SELECT
			p.pipeline_id, p.project_name,
			f.field_code, f.field_name,
			sc.service_code, COALESCE(sc.display_name, sc.service_name) AS service_name,
			c1.client_id, c1.client_name,
			c2.client_id, c2.client_name,
			o.org_id, o.org_name,
			u.login_id, u.user_name
		FROM projects p
		LEFT JOIN industry_fields f ON f.company_cd = p.company_cd AND f.field_code = p.field_code
		LEFT JOIN service_codes sc ON sc.company_cd = p.company_cd AND sc.service_code = p.service_code
		LEFT JOIN clients c1 ON c1.company_cd = p.company_cd AND c1.client_id = p.customer_id
		LEFT JOIN clients c2 ON c2.company_cd = p.company_cd AND c2.client_id = p.ordering_party_id
		LEFT JOIN org_units o ON o.company_cd = p.company_cd AND o.org_id = p.org_id
		LEFT JOIN users u ON u.company_cd = p.company_cd AND u.login_id = p.manager_id
		LEFT JOIN sales_plan_line spl
			ON spl.company_cd = p.company_cd AND spl.plan_id = $2 AND spl.pipeline_id = p.pipeline_id
		WHERE p.company_cd = $1 AND spl.pipeline_id IS NULL`
	args := []interface{}{tenant.CompanyCode, planID}
	sql, args = appendLineFilter(sql, args, "p", filter,
		"(p.project_name LIKE $%d OR c1.client_name LIKE $%d OR p.pipeline_id LIKE $%d)")
	sql += " ORDER BY p.pipeline_id"

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("plans: missing projects: %w", err)
	}
	defer rows.Close()

	var candidates []CandidateProject
	for rows.Next() {
		var c CandidateProject
		err := rows.Scan(
			&c.PipelineID, &c.ProjectName,
			&c.FieldCode, &c.FieldName,
			&c.ServiceCode, &c.ServiceName,
			&c.CustomerID, &c.CustomerName,
			&c.OrderingPartyID, &c.OrderingPartyName,
			&c.OrgID, &c.OrgName,
			&c.ManagerID, &c.ManagerName,
		)
		if err != nil {
			return nil, fmt.Errorf("plans: scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// UpsertLines writes the batch inside one transaction. Conflicting rows
// keep their stored dimension values when the incoming value is NULL.
func (r *SQLRepository) UpsertLines(ctx context.Context, tenant shared.Tenant, planID int64, lines []Line, updatedBy string) (int, error) {
	const upsert = `
		INSERT INTO sales_plan_line (
			company_cd, plan_id, pipeline_id,
			field_code, field_name_snapshot,
			service_code, service_name_snapshot,
			customer_id, customer_name_snapshot,
			ordering_party_id, ordering_party_name_snapshot,
			project_name_snapshot,
			org_id, org_name_snapshot,
			manager_id, manager_name_snapshot,
			contract_plan_date, start_plan_date, end_plan_date,
			plan_total,
			plan_m01, plan_m02, plan_m03, plan_m04, plan_m05, plan_m06,
			plan_m07, plan_m08, plan_m09, plan_m10, plan_m11, plan_m12,
			created_by, updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32,
			$33, $33
		)
		ON CONFLICT (company_cd, plan_id, pipeline_id) DO UPDATE SET
			field_code = COALESCE(EXCLUDED.field_code, sales_plan_line.field_code),
			field_name_snapshot = COALESCE(EXCLUDED.field_name_snapshot, sales_plan_line.field_name_snapshot),
			service_code = COALESCE(EXCLUDED.service_code, sales_plan_line.service_code),
			service_name_snapshot = COALESCE(EXCLUDED.service_name_snapshot, sales_plan_line.service_name_snapshot),
			customer_id = COALESCE(EXCLUDED.customer_id, sales_plan_line.customer_id),
			customer_name_snapshot = COALESCE(EXCLUDED.customer_name_snapshot, sales_plan_line.customer_name_snapshot),
			ordering_party_id = COALESCE(EXCLUDED.ordering_party_id, sales_plan_line.ordering_party_id),
			ordering_party_name_snapshot = COALESCE(EXCLUDED.ordering_party_name_snapshot, sales_plan_line.ordering_party_name_snapshot),
			project_name_snapshot = COALESCE(EXCLUDED.project_name_snapshot, sales_plan_line.project_name_snapshot),
			org_id = COALESCE(EXCLUDED.org_id, sales_plan_line.org_id),
			org_name_snapshot = COALESCE(EXCLUDED.org_name_snapshot, sales_plan_line.org_name_snapshot),
			manager_id = COALESCE(EXCLUDED.manager_id, sales_plan_line.manager_id),
			manager_name_snapshot = COALESCE(EXCLUDED.manager_name_snapshot, sales_plan_line.manager_name_snapshot),
			contract_plan_date = EXCLUDED.contract_plan_date,
			start_plan_date = EXCLUDED.start_plan_date,
			end_plan_date = EXCLUDED.end_plan_date,
			plan_total = EXCLUDED.plan_total,
			plan_m01 = EXCLUDED.plan_m01, plan_m02 = EXCLUDED.plan_m02, plan_m03 = EXCLUDED.plan_m03,
			plan_m04 = EXCLUDED.plan_m04, plan_m05 = EXCLUDED.plan_m05, plan_m06 = EXCLUDED.plan_m06,
			plan_m07 = EXCLUDED.plan_m07, plan_m08 = EXCLUDED.plan_m08, plan_m09 = EXCLUDED.plan_m09,
			plan_m10 = EXCLUDED.plan_m10, plan_m11 = EXCLUDED.plan_m11, plan_m12 = EXCLUDED.plan_m12,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()`

	saved := 0
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for i := range lines {
			l := &lines[i]
			args := []interface{}{
				tenant.CompanyCode, planID, l.PipelineID,
				l.FieldCode, l.FieldName,
				l.ServiceCode, l.ServiceName,
				l.CustomerID, l.CustomerName,
				l.OrderingPartyID, l.OrderingPartyName,
				l.ProjectName,
				l.OrgID, l.OrgName,
				l.ManagerID, l.ManagerName,
				l.ContractPlanDate, l.StartPlanDate, l.EndPlanDate,
				l.PlanTotal,
			}
			for _, m := range l.months() {
				args = append(args, *m)
			}
			args = append(args, updatedBy)
			if _, err := tx.Exec(ctx, upsert, args...); err != nil {
				return fmt.Errorf("plans: upsert line %s: %w", l.PipelineID, err)
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

func (r *SQLRepository) DeleteLines(ctx context.Context, tenant shared.Tenant, planID int64, req DeleteLinesRequest) (int, error) {
	deleted := 0
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if len(req.PlanLineIDs) > 0 {
			tag, err := tx.Exec(ctx, `
				DELETE FROM sales_plan_line
				WHERE company_cd = $1 AND plan_id = $2 AND plan_line_id = ANY($3)`,
				tenant.CompanyCode, planID, req.PlanLineIDs)
			if err != nil {
				return fmt.Errorf("plans: delete lines by id: %w", err)
			}
			deleted += int(tag.RowsAffected())
		}
		if len(req.PipelineIDs) > 0 {
			tag, err := tx.Exec(ctx, `
				DELETE FROM sales_plan_line
				WHERE company_cd = $1 AND plan_id = $2 AND pipeline_id = ANY($3)`,
				tenant.CompanyCode, planID, req.PipelineIDs)
			if err != nil {
				return fmt.Errorf("plans: delete lines by pipeline: %w", err)
			}
			deleted += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func appendLineFilter(sql string, args []interface{}, alias string, f LineFilter, keywordClause string) (string, []interface{}) {
	if f.OrgID != nil {
		args = append(args, *f.OrgID)
		sql += fmt.Sprintf(" AND %s.org_id = $%d", alias, len(args))
	}
	if f.ManagerID != "" {
		args = append(args, f.ManagerID)
		sql += fmt.Sprintf(" AND %s.manager_id = $%d", alias, len(args))
	}
	if f.FieldCode != "" {
		args = append(args, f.FieldCode)
		sql += fmt.Sprintf(" AND %s.field_code = $%d", alias, len(args))
	}
	if f.ServiceCode != "" {
		args = append(args, f.ServiceCode)
		sql += fmt.Sprintf(" AND %s.service_code = $%d", alias, len(args))
	}
	if f.Keyword != "" {
		args = append(args, "%"+f.Keyword+"%")
		n := len(args)
		sql += " AND " + fmt.Sprintf(keywordClause, n, n, n)
	}
	return sql, args
}
