package plans

import "time"

// Plan status codes. FINAL and CANCELLED plans are frozen: their lines
// reject writes until the header moves back to DRAFT.
const (
	StatusDraft     = "DRAFT"
	StatusFinal     = "FINAL"
	StatusCancelled = "CANCELLED"
)

// Header is one sales plan version for a year.
type Header struct {
	PlanID    int64      `json:"plan_id"`
	PlanYear  int        `json:"plan_year"`
	Version   string     `json:"plan_version"`
	Status    string     `json:"status_code"`
	BaseDate  *time.Time `json:"base_date"`
	Remarks   *string    `json:"remarks"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Editable reports whether line writes are allowed for this header.
func (h Header) Editable() bool {
	return h.Status != StatusFinal && h.Status != StatusCancelled
}

// Line is one planned pipeline within a plan. Dimension names are
// snapshots taken at write time.
type Line struct {
	PlanLineID        int64      `json:"plan_line_id"`
	PlanID            int64      `json:"plan_id"`
	PipelineID        string     `json:"pipeline_id"`
	FieldCode         *string    `json:"field_code"`
	FieldName         *string    `json:"field_name_snapshot"`
	ServiceCode       *string    `json:"service_code"`
	ServiceName       *string    `json:"service_name_snapshot"`
	CustomerID        *int64     `json:"customer_id"`
	CustomerName      *string    `json:"customer_name_snapshot"`
	OrderingPartyID   *int64     `json:"ordering_party_id"`
	OrderingPartyName *string    `json:"ordering_party_name_snapshot"`
	ProjectName       *string    `json:"project_name_snapshot"`
	OrgID             *int64     `json:"org_id"`
	OrgName           *string    `json:"org_name_snapshot"`
	ManagerID         *string    `json:"manager_id"`
	ManagerName       *string    `json:"manager_name_snapshot"`
	ContractPlanDate  *time.Time `json:"contract_plan_date"`
	StartPlanDate     *time.Time `json:"start_plan_date"`
	EndPlanDate       *time.Time `json:"end_plan_date"`
	PlanTotal         float64    `json:"plan_total"`
	M01               float64    `json:"plan_m01"`
	M02               float64    `json:"plan_m02"`
	M03               float64    `json:"plan_m03"`
	M04               float64    `json:"plan_m04"`
	M05               float64    `json:"plan_m05"`
	M06               float64    `json:"plan_m06"`
	M07               float64    `json:"plan_m07"`
	M08               float64    `json:"plan_m08"`
	M09               float64    `json:"plan_m09"`
	M10               float64    `json:"plan_m10"`
	M11               float64    `json:"plan_m11"`
	M12               float64    `json:"plan_m12"`
}

func (l *Line) months() []*float64 {
	return []*float64{&l.M01, &l.M02, &l.M03, &l.M04, &l.M05, &l.M06, &l.M07, &l.M08, &l.M09, &l.M10, &l.M11, &l.M12}
}

// HeaderStats summarizes a filtered header listing.
type HeaderStats struct {
	Total      int  `json:"total"`
	Draft      int  `json:"draft"`
	Final      int  `json:"final"`
	LatestYear *int `json:"latest_year"`
}

// HeaderPage is a paged header listing.
type HeaderPage struct {
	Items      []Header    `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	Stats      HeaderStats `json:"stats"`
}

// CandidateProject is a pipeline matching the filter that has no line
// in the plan yet.
type CandidateProject struct {
	PipelineID        string  `json:"pipeline_id"`
	ProjectName       string  `json:"project_name"`
	FieldCode         *string `json:"field_code"`
	FieldName         *string `json:"field_name"`
	ServiceCode       *string `json:"service_code"`
	ServiceName       *string `json:"service_name"`
	CustomerID        *int64  `json:"customer_id"`
	CustomerName      *string `json:"customer_name"`
	OrderingPartyID   *int64  `json:"ordering_party_id"`
	OrderingPartyName *string `json:"ordering_party_name"`
	OrgID             *int64  `json:"org_id"`
	OrgName           *string `json:"org_name"`
	ManagerID         *string `json:"manager_id"`
	ManagerName       *string `json:"manager_name"`
}
