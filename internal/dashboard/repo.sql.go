package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gninraw7/psms/internal/report"
	"github.com/gninraw7/psms/internal/shared"
)

// SQLRepository provides PostgreSQL backed dashboard reads.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewSQLRepository constructs a repository.
func NewSQLRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

// AvailableYears lists distinct actual and plan years, newest first.
func (r *SQLRepository) AvailableYears(ctx context.Context, tenant shared.Tenant) ([]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT year FROM (
			SELECT actual_year AS year FROM sales_actual_line WHERE company_cd = $1
			UNION
			SELECT plan_year AS year FROM sales_plan WHERE company_cd = $1
		) y ORDER BY year DESC`,
		tenant.CompanyCode)
	if err != nil {
		return nil, fmt.Errorf("dashboard: available years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("dashboard: scan year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

func monthSums(prefix, suffix string) string {
	parts := make([]string, 0, 12)
	for m := 1; m <= 12; m++ {
		parts = append(parts, fmt.Sprintf("SUM(COALESCE(%sm%02d%s,0))", prefix, m, suffix))
	}
	return strings.Join(parts, ", ")
}

// ActualMonthlyTotals sums order and profit per month for one year.
func (r *SQLRepository) ActualMonthlyTotals(ctx context.Context, tenant shared.Tenant, year int) (report.MonthlySeries, report.MonthlySeries, error) {
	var order, profit report.MonthlySeries

	sql := fmt.Sprintf(`SELECT %s, %s FROM sales_actual_line WHERE company_cd = $1 AND actual_year = $2`,
		monthSums("", "_order"), monthSums("", "_profit"))

	dest := make([]interface{}, 0, 24)
	sums := make([]*float64, 24)
	for i := range sums {
		dest = append(dest, &sums[i])
	}
	if err := r.pool.QueryRow(ctx, sql, tenant.CompanyCode, year).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order, profit, nil
		}
		return order, profit, fmt.Errorf("dashboard: actual totals: %w", err)
	}
	for m := 0; m < 12; m++ {
		if sums[m] != nil {
			order[m] = *sums[m]
		}
		if sums[m+12] != nil {
			profit[m] = *sums[m+12]
		}
	}
	return order, profit, nil
}

// PlanMonthlyTotals sums monthly plan amounts for the year's applicable plan.
func (r *SQLRepository) PlanMonthlyTotals(ctx context.Context, tenant shared.Tenant, year int) (report.MonthlySeries, error) {
	var series report.MonthlySeries

	var planID int64
	err := r.pool.QueryRow(ctx, `
		SELECT plan_id FROM sales_plan
		WHERE company_cd = $1 AND plan_year = $2
		ORDER BY (status_code = 'FINAL') DESC, updated_at DESC, plan_id DESC
		LIMIT 1`,
		tenant.CompanyCode, year).Scan(&planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return series, nil
		}
		return series, fmt.Errorf("dashboard: select plan: %w", err)
	}

	sql := fmt.Sprintf(`SELECT %s FROM sales_plan_line WHERE company_cd = $1 AND plan_id = $2`,
		monthSums("plan_", ""))

	dest := make([]interface{}, 0, 12)
	sums := make([]*float64, 12)
	for i := range sums {
		dest = append(dest, &sums[i])
	}
	if err := r.pool.QueryRow(ctx, sql, tenant.CompanyCode, planID).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return series, nil
		}
		return series, fmt.Errorf("dashboard: plan totals: %w", err)
	}
	for m := 0; m < 12; m++ {
		if sums[m] != nil {
			series[m] = *sums[m]
		}
	}
	return series, nil
}

// Projects returns the full pipeline list with joined master-data names.
func (r *SQLRepository) Projects(ctx context.Context, tenant shared.Tenant) ([]Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			p.pipeline_id,
			COALESCE(p.project_name, ''),
			COALESCE(p.current_stage, ''),
			COALESCE(cc.code_name, ''),
			COALESCE(p.quoted_amount, 0),
			COALESCE(p.win_probability, 0),
			COALESCE(u.user_name, ''),
			COALESCE(c.client_name, ''),
			COALESCE(f.field_name, ''),
			pc.contract_end_date,
			p.updated_at
		FROM projects p
		LEFT JOIN comm_code cc ON cc.company_cd = p.company_cd AND cc.group_code = 'STAGE' AND cc.code = p.current_stage
		LEFT JOIN users u ON u.company_cd = p.company_cd AND u.login_id = p.manager_id
		LEFT JOIN clients c ON c.company_cd = p.company_cd AND c.client_id = p.customer_id
		LEFT JOIN industry_fields f ON f.company_cd = p.company_cd AND f.field_code = p.field_code
		LEFT JOIN project_contracts pc ON pc.company_cd = p.company_cd AND pc.pipeline_id = p.pipeline_id
		WHERE p.company_cd = $1`,
		tenant.CompanyCode)
	if err != nil {
		return nil, fmt.Errorf("dashboard: projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(
			&p.PipelineID, &p.ProjectName, &p.StageCode, &p.StageName,
			&p.QuotedAmount, &p.WinProbability,
			&p.ManagerName, &p.CustomerName, &p.FieldName,
			&p.ContractEndDate, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("dashboard: scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
