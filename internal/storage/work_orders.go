package storage

import "github.com/shopspring/decimal"

type WorkOrderStatus string

const (
	WorkOrderPending    WorkOrderStatus = "pending"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderCompleted  WorkOrderStatus = "completed"
)

type WorkOrder struct {
	ID             string          `json:"id"`
	PartNumber     string          `json:"part_number"`
	ProjectID      string          `json:"project_id"`
	TargetQuantity int             `json:"target_quantity"`
	MaterialCost   decimal.Decimal `json:"material_cost"`
	Status         WorkOrderStatus `json:"status"`
}
