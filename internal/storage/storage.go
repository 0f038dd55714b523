package storage

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrMachineBusy       = errors.New("machine busy")
	ErrMachineNotRunning = errors.New("machine not running")
	// ErrWorkOrderNotPending means the work order was already started or
	// completed. A work order is started at most once.
	ErrWorkOrderNotPending = errors.New("work order not pending")
)

// StartCommit is the unit of side effects of an approved start: the machine's
// idle->running transition, the work order's pending->in_progress
// transition, the material debit and the traceability record.
// Stores apply it all or nothing.
type StartCommit struct {
	MachineID   string
	WorkOrderID string
	Entry       LedgerEntry
	Trace       TraceabilityEntry
}
