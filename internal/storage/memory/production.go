package memory

import (
	"context"
	"fmt"

	"production-ledger/internal/storage"
)

func (s *Store) CommitStart(_ context.Context, c storage.StartCommit) error {
	const op = "storage.memory.CommitStart"

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.machines[c.MachineID]
	if !ok {
		return fmt.Errorf("%s: machine %q: %w", op, c.MachineID, storage.ErrNotFound)
	}
	if m.Status != storage.MachineIdle {
		return fmt.Errorf("%s: machine %q is %s: %w", op, c.MachineID, m.Status, storage.ErrMachineBusy)
	}
	wo, ok := s.workOrders[c.WorkOrderID]
	if !ok {
		return fmt.Errorf("%s: work order %q: %w", op, c.WorkOrderID, storage.ErrNotFound)
	}
	if wo.Status != storage.WorkOrderPending {
		return fmt.Errorf("%s: work order %q is %s: %w", op, c.WorkOrderID, wo.Status, storage.ErrWorkOrderNotPending)
	}
	if _, dup := s.ledgerKeys[keyOf(c.Entry)]; dup {
		return fmt.Errorf("%s: %s/%s/%s: %w", op, c.Entry.ProjectID, c.Entry.Kind, c.Entry.SourceID, storage.ErrDuplicateEntry)
	}

	job := c.WorkOrderID
	m.Status = storage.MachineRunning
	m.CurrentJob = &job
	s.machines[c.MachineID] = m
	wo.Status = storage.WorkOrderInProgress
	s.workOrders[c.WorkOrderID] = wo
	s.appendLedgerLocked(c.Entry)
	s.trace = append(s.trace, c.Trace)

	return nil
}

// CompleteJob moves a running machine back to idle, marks its work order
// completed and returns the job it was running.
func (s *Store) CompleteJob(_ context.Context, machineID string, trace storage.TraceabilityEntry) (string, error) {
	const op = "storage.memory.CompleteJob"

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.machines[machineID]
	if !ok {
		return "", fmt.Errorf("%s: machine %q: %w", op, machineID, storage.ErrNotFound)
	}
	if m.Status != storage.MachineRunning || m.CurrentJob == nil {
		return "", fmt.Errorf("%s: machine %q is %s: %w", op, machineID, m.Status, storage.ErrMachineNotRunning)
	}

	job := *m.CurrentJob
	m.Status = storage.MachineIdle
	m.CurrentJob = nil
	s.machines[machineID] = m

	trace.WorkOrderID = job
	if wo, ok := s.workOrders[job]; ok {
		wo.Status = storage.WorkOrderCompleted
		s.workOrders[job] = wo
		trace.PartNumber = wo.PartNumber
		trace.ProjectID = wo.ProjectID
	}
	s.trace = append(s.trace, trace)

	return job, nil
}

func (s *Store) Traceability(_ context.Context, filter storage.TraceabilityFilter) ([]storage.TraceabilityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []storage.TraceabilityEntry
	for _, e := range s.trace {
		if filter.WorkOrderID != "" && e.WorkOrderID != filter.WorkOrderID {
			continue
		}
		if filter.PartNumber != "" && e.PartNumber != filter.PartNumber {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
