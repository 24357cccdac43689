package plans

// CreateHeaderRequest creates a new plan header. Year plus version is
// unique per company.
type CreateHeaderRequest struct {
	PlanYear  int     `json:"plan_year" validate:"required,gte=2000,lte=2100"`
	Version   string  `json:"plan_version"`
	Status    string  `json:"status_code" validate:"omitempty,oneof=DRAFT FINAL CANCELLED"`
	BaseDate  *string `json:"base_date" validate:"omitempty,datetime=2006-01-02"`
	Remarks   *string `json:"remarks"`
	CreatedBy string  `json:"created_by"`
}

// UpdateHeaderRequest patches a header. Nil fields keep their stored
// values.
type UpdateHeaderRequest struct {
	Version   *string `json:"plan_version"`
	Status    *string `json:"status_code" validate:"omitempty,oneof=DRAFT FINAL CANCELLED"`
	BaseDate  *string `json:"base_date" validate:"omitempty,datetime=2006-01-02"`
	Remarks   *string `json:"remarks"`
	UpdatedBy string  `json:"updated_by"`
}

// LineItem is one line in a batch upsert. Dimension fields left nil are
// filled from the project snapshot; a nil PlanTotal is recomputed from
// the twelve months.
type LineItem struct {
	PipelineID      string   `json:"pipeline_id" validate:"required"`
	FieldCode       *string  `json:"field_code"`
	ServiceCode     *string  `json:"service_code"`
	CustomerID      *int64   `json:"customer_id"`
	OrderingPartyID *int64   `json:"ordering_party_id"`
	OrgID           *int64   `json:"org_id"`
	ManagerID       *string  `json:"manager_id"`
	ContractDate    *string  `json:"contract_plan_date" validate:"omitempty,datetime=2006-01-02"`
	StartDate       *string  `json:"start_plan_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         *string  `json:"end_plan_date" validate:"omitempty,datetime=2006-01-02"`
	PlanTotal       *float64 `json:"plan_total"`
	M01             float64  `json:"plan_m01"`
	M02             float64  `json:"plan_m02"`
	M03             float64  `json:"plan_m03"`
	M04             float64  `json:"plan_m04"`
	M05             float64  `json:"plan_m05"`
	M06             float64  `json:"plan_m06"`
	M07             float64  `json:"plan_m07"`
	M08             float64  `json:"plan_m08"`
	M09             float64  `json:"plan_m09"`
	M10             float64  `json:"plan_m10"`
	M11             float64  `json:"plan_m11"`
	M12             float64  `json:"plan_m12"`
}

// MonthSum totals the twelve monthly amounts.
func (l LineItem) MonthSum() float64 {
	return l.M01 + l.M02 + l.M03 + l.M04 + l.M05 + l.M06 +
		l.M07 + l.M08 + l.M09 + l.M10 + l.M11 + l.M12
}

// SaveLinesRequest batch-upserts lines for one plan.
type SaveLinesRequest struct {
	PlanID    int64      `json:"plan_id" validate:"required"`
	UpdatedBy string     `json:"updated_by"`
	Lines     []LineItem `json:"lines" validate:"required,min=1,dive"`
}

// DeleteLinesRequest removes lines by id or by pipeline.
type DeleteLinesRequest struct {
	PlanLineIDs []int64  `json:"plan_line_ids"`
	PipelineIDs []string `json:"pipeline_ids"`
}

// HeaderFilter narrows the header listing.
type HeaderFilter struct {
	PlanYear *int
	Version  string
	Status   string
	Keyword  string
	Page     int
	PageSize int
}

// LineFilter narrows line and candidate listings.
type LineFilter struct {
	OrgID       *int64
	ManagerID   string
	FieldCode   string
	ServiceCode string
	Keyword     string
}
