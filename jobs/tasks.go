package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPlanIntegrity recomputes plan line totals and reports drift.
	TaskPlanIntegrity = "plan:integrity"
)

// PlanIntegrityPayload scopes one integrity scan. An empty CompanyCode
// scans every company; a zero PlanYear scans every year.
type PlanIntegrityPayload struct {
	ScanID      string `json:"scan_id"`
	CompanyCode string `json:"company_code,omitempty"`
	PlanYear    int    `json:"plan_year,omitempty"`
}

// NewPlanIntegrityTask constructs an Asynq task with a fresh scan id.
func NewPlanIntegrityTask(companyCode string, planYear int) (*asynq.Task, error) {
	data, err := json.Marshal(PlanIntegrityPayload{
		ScanID:      uuid.NewString(),
		CompanyCode: companyCode,
		PlanYear:    planYear,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPlanIntegrity, data), nil
}
