package projects

import "time"

// Project is a pipeline row joined with its dimension names.
type Project struct {
	PipelineID     string     `json:"pipeline_id"`
	ProjectName    string     `json:"project_name"`
	CurrentStage   string     `json:"current_stage"`
	StageName      string     `json:"stage_name"`
	QuotedAmount   float64    `json:"quoted_amount"`
	WinProbability float64    `json:"win_probability"`
	FieldCode      *string    `json:"field_code"`
	FieldName      *string    `json:"field_name"`
	ServiceCode    *string    `json:"service_code"`
	ServiceName    *string    `json:"service_name"`
	CustomerID     *int64     `json:"customer_id"`
	CustomerName   *string    `json:"customer_name"`
	OrgID          *int64     `json:"org_id"`
	OrgName        *string    `json:"org_name"`
	ManagerID      *string    `json:"manager_id"`
	ManagerName    *string    `json:"manager_name"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ContractEnd    *time.Time `json:"contract_end_date"`
}

// Snapshot carries the dimension names of a project at the moment a
// plan or actual line is written. Line tables store these as
// *_name_snapshot columns so later master-data edits do not rewrite
// history.
type Snapshot struct {
	PipelineID        string
	ProjectName       *string
	FieldCode         *string
	FieldName         *string
	ServiceCode       *string
	ServiceName       *string
	CustomerID        *int64
	CustomerName      *string
	OrderingPartyID   *int64
	OrderingPartyName *string
	OrgID             *int64
	OrgName           *string
	ManagerID         *string
	ManagerName       *string
	ContractDate      *time.Time
	StartDate         *time.Time
	EndDate           *time.Time
}
