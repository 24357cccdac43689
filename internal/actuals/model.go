package actuals

import "time"

// Line is one pipeline's recorded performance for a year. Order and
// profit amounts are tracked per month; totals are stored denormalized
// for quick grouping.
type Line struct {
	ActualLineID      int64      `json:"actual_line_id"`
	ActualYear        int        `json:"actual_year"`
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
	ContractDate      *time.Time `json:"contract_date"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	OrderTotal        float64    `json:"order_total"`
	ProfitTotal       float64    `json:"profit_total"`
	O01               float64    `json:"m01_order"`
	P01               float64    `json:"m01_profit"`
	O02               float64    `json:"m02_order"`
	P02               float64    `json:"m02_profit"`
	O03               float64    `json:"m03_order"`
	P03               float64    `json:"m03_profit"`
	O04               float64    `json:"m04_order"`
	P04               float64    `json:"m04_profit"`
	O05               float64    `json:"m05_order"`
	P05               float64    `json:"m05_profit"`
	O06               float64    `json:"m06_order"`
	P06               float64    `json:"m06_profit"`
	O07               float64    `json:"m07_order"`
	P07               float64    `json:"m07_profit"`
	O08               float64    `json:"m08_order"`
	P08               float64    `json:"m08_profit"`
	O09               float64    `json:"m09_order"`
	P09               float64    `json:"m09_profit"`
	O10               float64    `json:"m10_order"`
	P10               float64    `json:"m10_profit"`
	O11               float64    `json:"m11_order"`
	P11               float64    `json:"m11_profit"`
	O12               float64    `json:"m12_order"`
	P12               float64    `json:"m12_profit"`
}

// monthCells yields order/profit pointers in column order, one
// order/profit pair per month.
func (l *Line) monthCells() []*float64 {
	return []*float64{
		&l.O01, &l.P01, &l.O02, &l.P02, &l.O03, &l.P03,
		&l.O04, &l.P04, &l.O05, &l.P05, &l.O06, &l.P06,
		&l.O07, &l.P07, &l.O08, &l.P08, &l.O09, &l.P09,
		&l.O10, &l.P10, &l.O11, &l.P11, &l.O12, &l.P12,
	}
}

// GroupTotal is one bucket of the quick summary.
type GroupTotal struct {
	GroupName   string  `json:"group_name"`
	OrderTotal  float64 `json:"order_total"`
	ProfitTotal float64 `json:"profit_total"`
}
