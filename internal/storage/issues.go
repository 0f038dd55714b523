package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "critical"
	SeverityMajor    IssueSeverity = "major"
	SeverityMinor    IssueSeverity = "minor"
)

type IssueStatus string

const (
	IssueOpen   IssueStatus = "open"
	IssueClosed IssueStatus = "closed"
)

// Issue is a non-conformance report.
type Issue struct {
	ID         string        `json:"id"`
	PartNumber string        `json:"part_number"`
	Title      string        `json:"title"`
	Severity   IssueSeverity `json:"severity"`
	Status     IssueStatus   `json:"status"`
}

// MaintenanceTask is a predicted maintenance need on a machine, charged to a
// project when it is resolved.
type MaintenanceTask struct {
	ID          string          `json:"id"`
	MachineID   string          `json:"machine_id"`
	ProjectID   string          `json:"project_id"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	DueAt       time.Time       `json:"due_at"`
}
