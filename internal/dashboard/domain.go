// Package dashboard derives the CEO dashboard read model from the plan,
// actual and project tables. It shares the monthly series model and the
// snapshot/live label resolution with the report aggregator.
package dashboard

import "time"

// Stage codes classify a project's position in the sales funnel.
var (
	stageSequence = []string{"S01", "S02", "S03", "S04", "S05", "S06", "S07", "S08", "S09"}

	lostStages   = map[string]bool{"S05": true, "S06": true}
	closedStages = map[string]bool{"S07": true, "S08": true, "S09": true}
)

const (
	staleAfter         = 90 * 24 * time.Hour
	lowProbabilityMax  = 30.0
	riskListLimit      = 12
	managerTopLimit    = 5
	customerTopLimit   = 10
	fieldMixLimit      = 8
)

// Project is the read-only pipeline row the dashboard derives from.
type Project struct {
	PipelineID      string
	ProjectName     string
	StageCode       string
	StageName       string
	QuotedAmount    float64
	WinProbability  float64
	ManagerName     string
	CustomerName    string
	FieldName       string
	ContractEndDate *time.Time
	UpdatedAt       time.Time
}

// KPI is the headline card block.
type KPI struct {
	OrderTotal      float64  `json:"order_total"`
	OrderYoYRate    *float64 `json:"order_yoy_rate"`
	ProfitTotal     float64  `json:"profit_total"`
	PlanTotal       float64  `json:"plan_total"`
	AchievementRate *float64 `json:"achievement_rate"`

	TotalProjects  int `json:"total_projects"`
	ActiveProjects int `json:"active_projects"`
	ClosedProjects int `json:"closed_projects"`
	LostProjects   int `json:"lost_projects"`

	ActivePipelineAmount float64 `json:"active_pipeline_amount"`
	ExpectedAmount       float64 `json:"expected_amount"`
	AvgWinProbability    float64 `json:"avg_win_probability"`

	OverdueProjects        int `json:"overdue_projects"`
	StaleProjects          int `json:"stale_projects"`
	LowProbabilityProjects int `json:"low_probability_projects"`
}

// MonthlyTrendPoint compares one month across current year, prior year and plan.
type MonthlyTrendPoint struct {
	Month         int     `json:"month"`
	ActualOrder   float64 `json:"actual_order"`
	PreviousOrder float64 `json:"previous_order"`
	PlanOrder     float64 `json:"plan_order"`
}

// QuarterComparison compares one quarter's actual against plan.
type QuarterComparison struct {
	Quarter         string   `json:"quarter"`
	ActualOrder     float64  `json:"actual_order"`
	PlanOrder       float64  `json:"plan_order"`
	AchievementRate *float64 `json:"achievement_rate"`
}

// StageFunnelEntry summarises one funnel stage.
type StageFunnelEntry struct {
	StageCode         string  `json:"stage_code"`
	StageName         string  `json:"stage_name"`
	ProjectCount      int     `json:"project_count"`
	TotalAmount       float64 `json:"total_amount"`
	AvgWinProbability float64 `json:"avg_win_probability"`
}

// ProbabilityBand counts active projects inside one win-probability band.
type ProbabilityBand struct {
	Band         string `json:"probability_band"`
	ProjectCount int    `json:"project_count"`
}

// ManagerTopEntry ranks a manager by probability-weighted expected amount.
type ManagerTopEntry struct {
	ManagerName    string  `json:"manager_name"`
	ProjectCount   int     `json:"project_count"`
	ExpectedAmount float64 `json:"expected_amount"`
}

// CustomerTopEntry ranks a customer by probability-weighted expected amount.
type CustomerTopEntry struct {
	CustomerName   string  `json:"customer_name"`
	ProjectCount   int     `json:"project_count"`
	ExpectedAmount float64 `json:"expected_amount"`
}

// FieldMixEntry ranks an industry field by total quoted amount.
type FieldMixEntry struct {
	FieldName    string  `json:"field_name"`
	ProjectCount int     `json:"project_count"`
	TotalAmount  float64 `json:"total_amount"`
}

// RiskProject flags one at-risk pipeline entry.
type RiskProject struct {
	PipelineID       string  `json:"pipeline_id"`
	ProjectName      string  `json:"project_name"`
	StageName        string  `json:"stage_name"`
	QuotedAmount     float64 `json:"quoted_amount"`
	WinProbability   float64 `json:"win_probability"`
	IsOverdue        bool    `json:"is_overdue"`
	IsLowProbability bool    `json:"is_low_probability"`
	IsStale          bool    `json:"is_stale"`
}

// Dashboard is the full ceo-dashboard payload.
type Dashboard struct {
	Year              int                 `json:"year"`
	AvailableYears    []int               `json:"available_years"`
	KPI               KPI                 `json:"kpi"`
	MonthlyTrend      []MonthlyTrendPoint `json:"monthly_trend"`
	QuarterComparison []QuarterComparison `json:"quarter_comparison"`
	StageFunnel       []StageFunnelEntry  `json:"stage_funnel"`
	ProbabilityBands  []ProbabilityBand   `json:"probability_bands"`
	ManagerTop        []ManagerTopEntry   `json:"manager_top"`
	FieldMix          []FieldMixEntry     `json:"field_mix"`
	CustomerTop       []CustomerTopEntry  `json:"customer_top"`
	RiskProjects      []RiskProject       `json:"risk_projects"`
	GeneratedAt       time.Time           `json:"generated_at"`
}

// IsLost reports whether a stage code means the opportunity was lost.
func IsLost(stageCode string) bool { return lostStages[stageCode] }

// IsClosed reports whether a stage code means the deal closed.
func IsClosed(stageCode string) bool { return closedStages[stageCode] }

// IsActive reports whether the project is still in play.
func IsActive(stageCode string) bool { return !IsLost(stageCode) && !IsClosed(stageCode) }
