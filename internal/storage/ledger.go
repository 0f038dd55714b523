package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerKind string

const (
	MaterialDebit    LedgerKind = "material_debit"
	MaintenanceDebit LedgerKind = "maintenance_debit"
)

func (k LedgerKind) Valid() bool {
	return k == MaterialDebit || k == MaintenanceDebit
}

// LedgerEntry is append-only. (ProjectID, Kind, SourceID) is unique.
type LedgerEntry struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      LedgerKind      `json:"kind"`
	SourceID  string          `json:"source_id"`
	CreatedAt time.Time       `json:"created_at"`
}
