package projects

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gninraw7/psms/internal/platform/httpx"
	"github.com/gninraw7/psms/internal/shared"
)

type SQLRepository struct {
	pool *pgxpool.Pool
}

func NewSQLRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

const projectSelect = `
	SELECT
		p.pipeline_id,
		p.project_name,
		COALESCE(p.current_stage, '') AS current_stage,
		COALESCE(cc.code_name, p.current_stage, '') AS stage_name,
		COALESCE(p.quoted_amount, 0),
		COALESCE(p.win_probability, 0),
		p.field_code,
		f.field_name,
		p.service_code,
		COALESCE(sc.display_name, sc.service_name) AS service_name,
		p.customer_id,
		c.client_name AS customer_name,
		p.org_id,
		o.org_name,
		p.manager_id,
		u.user_name AS manager_name,
		p.updated_at,
		pc.end_date AS contract_end_date
	FROM projects p
	LEFT JOIN comm_code cc ON cc.company_cd = p.company_cd AND cc.group_code = 'STAGE' AND cc.code = p.current_stage
	LEFT JOIN industry_fields f ON f.company_cd = p.company_cd AND f.field_code = p.field_code
	LEFT JOIN service_codes sc ON sc.company_cd = p.company_cd AND sc.service_code = p.service_code
	LEFT JOIN clients c ON c.company_cd = p.company_cd AND c.client_id = p.customer_id
	LEFT JOIN org_units o ON o.company_cd = p.company_cd AND o.org_id = p.org_id
	LEFT JOIN users u ON u.company_cd = p.company_cd AND u.login_id = p.manager_id
	LEFT JOIN project_contracts pc ON pc.company_cd = p.company_cd AND pc.pipeline_id = p.pipeline_id
	WHERE p.company_cd = $1`

func (r *SQLRepository) List(ctx context.Context, tenant shared.Tenant, filter Filter) ([]Project, error) {
	sql := projectSelect
	args := []interface{}{tenant.CompanyCode}

	if filter.OrgID != nil {
		args = append(args, *filter.OrgID)
		sql += fmt.Sprintf(" AND p.org_id = $%d", len(args))
	}
	if filter.ManagerID != "" {
		args = append(args, filter.ManagerID)
		sql += fmt.Sprintf(" AND p.manager_id = $%d", len(args))
	}
	if filter.FieldCode != "" {
		args = append(args, filter.FieldCode)
		sql += fmt.Sprintf(" AND p.field_code = $%d", len(args))
	}
	if filter.ServiceCode != "" {
		args = append(args, filter.ServiceCode)
		sql += fmt.Sprintf(" AND p.service_code = $%d", len(args))
	}
	if filter.Stage != "" {
		args = append(args, filter.Stage)
		sql += fmt.Sprintf(" AND p.current_stage = $%d", len(args))
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		sql += fmt.Sprintf(" AND (p.project_name LIKE $%d OR c.client_name LIKE $%d OR p.pipeline_id LIKE $%d)", len(args), len(args), len(args))
	}
	sql += " ORDER BY p.pipeline_id"

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("projects: list: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *SQLRepository) Get(ctx context.Context, tenant shared.Tenant, pipelineID string) (*Project, error) {
	sql := projectSelect + " AND p.pipeline_id = $2"
	rows, err := r.pool.Query(ctx, sql, tenant.CompanyCode, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("projects: get: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("projects: get: %w", err)
		}
		return nil, httpx.ErrNotFound
	}
	p, err := scanProject(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProject(rows pgx.Rows) (Project, error) {
	var p Project
	err := rows.Scan(
		&p.PipelineID, &p.ProjectName, &p.CurrentStage, &p.StageName,
		&p.QuotedAmount, &p.WinProbability,
		&p.FieldCode, &p.FieldName, &p.ServiceCode, &p.ServiceName,
		&p.CustomerID, &p.CustomerName, &p.OrgID, &p.OrgName,
		&p.ManagerID, &p.ManagerName, &p.UpdatedAt, &p.ContractEnd,
	)
	if err != nil {
		return Project{}, fmt.Errorf("projects: scan: %w", err)
	}
	return p, nil
}

// SnapshotMap loads the current dimension names for the given pipelines.
// Plan and actual line writes copy these into *_name_snapshot columns.
func (r *SQLRepository) SnapshotMap(ctx context.Context, tenant shared.Tenant, pipelineIDs []string) (map[string]Snapshot, error) {
	if len(pipelineIDs) == 0 {
		return map[string]Snapshot{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT
			p.pipeline_id,
			p.project_name,
			f.field_code, f.field_name,
			sc.service_code, COALESCE(sc.display_name, sc.service_name) AS service_name,
			c1.client_id AS customer_id, c1.client_name AS customer_name,
			c2.client_id AS ordering_party_id, c2.client_name AS ordering_party_name,
			o.org_id, o.org_name,
			u.login_id AS manager_id, u.user_name AS manager_name,
			pc.contract_date, pc.start_date, pc.end_date
		FROM projects p
		LEFT JOIN industry_fields f ON f.company_cd = p.company_cd AND f.field_code = p.field_code
		LEFT JOIN service_codes sc ON sc.company_cd = p.company_cd AND sc.service_code = p.service_code
		LEFT JOIN clients c1 ON c1.company_cd = p.company_cd AND c1.client_id = p.customer_id
		LEFT JOIN clients c2 ON c2.company_cd = p.company_cd AND c2.client_id = p.ordering_party_id
		LEFT JOIN org_units o ON o.company_cd = p.company_cd AND o.org_id = p.org_id
		LEFT JOIN users u ON u.company_cd = p.company_cd AND u.login_id = p.manager_id
		LEFT JOIN project_contracts pc ON pc.company_cd = p.company_cd AND pc.pipeline_id = p.pipeline_id
		WHERE p.company_cd = $1 AND p.pipeline_id = ANY($2)`,
		tenant.CompanyCode, pipelineIDs)
	if err != nil {
		return nil, fmt.Errorf("projects: snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[string]Snapshot, len(pipelineIDs))
	for rows.Next() {
		var s Snapshot
		err := rows.Scan(
			&s.PipelineID, &s.ProjectName,
			&s.FieldCode, &s.FieldName,
			&s.ServiceCode, &s.ServiceName,
			&s.CustomerID, &s.CustomerName,
			&s.OrderingPartyID, &s.OrderingPartyName,
			&s.OrgID, &s.OrgName,
			&s.ManagerID, &s.ManagerName,
			&s.ContractDate, &s.StartDate, &s.EndDate,
		)
		if err != nil {
			return nil, fmt.Errorf("projects: scan snapshot: %w", err)
		}
		snapshots[s.PipelineID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snapshots, nil
}
