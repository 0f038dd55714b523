package storage

import "time"

const (
	ActionProductionStarted = "production_started"
	ActionJobCompleted      = "job_completed"
)

type TraceabilityEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	MachineID   string    `json:"machine_id"`
	OperatorID  string    `json:"operator_id"`
	WorkOrderID string    `json:"work_order_id"`
	PartNumber  string    `json:"part_number"`
	ProjectID   string    `json:"project_id"`
	Note        string    `json:"note"`
}

type TraceabilityFilter struct {
	WorkOrderID string
	PartNumber  string
}
