package actuals

// LineItem is one line in a batch upsert. Dimension ids and contract
// dates left nil are filled from the project snapshot; nil totals are
// recomputed from the months.
type LineItem struct {
	PipelineID      string   `json:"pipeline_id" validate:"required"`
	FieldCode       *string  `json:"field_code"`
	ServiceCode     *string  `json:"service_code"`
	CustomerID      *int64   `json:"customer_id"`
	OrderingPartyID *int64   `json:"ordering_party_id"`
	OrgID           *int64   `json:"org_id"`
	ManagerID       *string  `json:"manager_id"`
	ContractDate    *string  `json:"contract_date" validate:"omitempty,datetime=2006-01-02"`
	StartDate       *string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         *string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	OrderTotal      *float64 `json:"order_total"`
	ProfitTotal     *float64 `json:"profit_total"`
	O01             float64  `json:"m01_order"`
	P01             float64  `json:"m01_profit"`
	O02             float64  `json:"m02_order"`
	P02             float64  `json:"m02_profit"`
	O03             float64  `json:"m03_order"`
	P03             float64  `json:"m03_profit"`
	O04             float64  `json:"m04_order"`
	P04             float64  `json:"m04_profit"`
	O05             float64  `json:"m05_order"`
	P05             float64  `json:"m05_profit"`
	O06             float64  `json:"m06_order"`
	P06             float64  `json:"m06_profit"`
	O07             float64  `json:"m07_order"`
	P07             float64  `json:"m07_profit"`
	O08             float64  `json:"m08_order"`
	P08             float64  `json:"m08_profit"`
	O09             float64  `json:"m09_order"`
	P09             float64  `json:"m09_profit"`
	O10             float64  `json:"m10_order"`
	P10             float64  `json:"m10_profit"`
	O11             float64  `json:"m11_order"`
	P11             float64  `json:"m11_profit"`
	O12             float64  `json:"m12_order"`
	P12             float64  `json:"m12_profit"`
}

// OrderSum totals the twelve monthly order amounts.
func (l LineItem) OrderSum() float64 {
	return l.O01 + l.O02 + l.O03 + l.O04 + l.O05 + l.O06 +
		l.O07 + l.O08 + l.O09 + l.O10 + l.O11 + l.O12
}

// ProfitSum totals the twelve monthly profit amounts.
func (l LineItem) ProfitSum() float64 {
	return l.P01 + l.P02 + l.P03 + l.P04 + l.P05 + l.P06 +
		l.P07 + l.P08 + l.P09 + l.P10 + l.P11 + l.P12
}

// SaveLinesRequest batch-upserts actual lines for one year.
type SaveLinesRequest struct {
	ActualYear int        `json:"actual_year" validate:"required,gte=2000,lte=2100"`
	UpdatedBy  string     `json:"updated_by"`
	Lines      []LineItem `json:"lines" validate:"required,min=1,dive"`
}

// LineFilter narrows the line listing.
type LineFilter struct {
	OrgID       *int64
	ManagerID   string
	FieldCode   string
	ServiceCode string
	Keyword     string
}
