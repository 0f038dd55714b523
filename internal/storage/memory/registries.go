package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"production-ledger/internal/storage"
)

func (s *Store) GetOperator(_ context.Context, id string) (*storage.Operator, error) {
	const op = "storage.memory.GetOperator"

	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.operators[id]
	if !ok {
		return nil, fmt.Errorf("%s: operator %q: %w", op, id, storage.ErrNotFound)
	}
	return &o, nil
}

func (s *Store) GetMachine(_ context.Context, id string) (*storage.Machine, error) {
	const op = "storage.memory.GetMachine"

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.machines[id]
	if !ok {
		return nil, fmt.Errorf("%s: machine %q: %w", op, id, storage.ErrNotFound)
	}
	return &m, nil
}

func (s *Store) ListMachines(_ context.Context) ([]storage.Machine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	machines := make([]storage.Machine, 0, len(s.machines))
	for _, m := range s.machines {
		machines = append(machines, m)
	}
	sort.Slice(machines, func(i, j int) bool { return machines[i].ID < machines[j].ID })
	return machines, nil
}

// SetMachineStatus records a status reported by the machine registry. Going
// idle clears the current job; Running is only reached through CommitStart.
func (s *Store) SetMachineStatus(_ context.Context, id string, status storage.MachineStatus, fault string) error {
	const op = "storage.memory.SetMachineStatus"

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.machines[id]
	if !ok {
		return fmt.Errorf("%s: machine %q: %w", op, id, storage.ErrNotFound)
	}
	m.Status = status
	m.FaultMessage = fault
	if status == storage.MachineIdle {
		m.CurrentJob = nil
	}
	s.machines[id] = m
	return nil
}

func (s *Store) GetWorkOrder(_ context.Context, id string) (*storage.WorkOrder, error) {
	const op = "storage.memory.GetWorkOrder"

	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workOrders[id]
	if !ok {
		return nil, fmt.Errorf("%s: work order %q: %w", op, id, storage.ErrNotFound)
	}
	return &w, nil
}

func (s *Store) GetProject(_ context.Context, id string) (*storage.Project, error) {
	const op = "storage.memory.GetProject"

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%s: project %q: %w", op, id, storage.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) GetFAIStatus(_ context.Context, partNumber string) (*storage.FAIRecord, error) {
	const op = "storage.memory.GetFAIStatus"

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.fai[partNumber]
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: part %q: %w", op, partNumber, storage.ErrNotFound)
	}

	latest := records[0]
	for _, r := range records[1:] {
		if r.Seq > latest.Seq {
			latest = r
		}
	}
	return &latest, nil
}

// FAIHistory returns every FAI record written for the part, oldest first.
func (s *Store) FAIHistory(_ context.Context, partNumber string) ([]storage.FAIRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]storage.FAIRecord, len(s.fai[partNumber]))
	copy(records, s.fai[partNumber])
	sort.Slice(records, func(i, j int) bool { return records[i].Seq < records[j].Seq })
	return records, nil
}

func (s *Store) RecordFAIStatus(_ context.Context, partNumber string, status storage.FAIStatus, note string) (*storage.FAIRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.faiSeq++
	r := storage.FAIRecord{
		Seq:        s.faiSeq,
		PartNumber: partNumber,
		Status:     status,
		Note:       note,
		RecordedAt: time.Now().UTC(),
	}
	s.fai[partNumber] = append(s.fai[partNumber], r)
	return &r, nil
}

func (s *Store) OpenIssues(_ context.Context) ([]storage.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var issues []storage.Issue
	for _, i := range s.issues {
		if i.Status == storage.IssueOpen {
			issues = append(issues, i)
		}
	}
	sort.Slice(issues, func(a, b int) bool { return issues[a].ID < issues[b].ID })
	return issues, nil
}

func (s *Store) PendingMaintenance(_ context.Context) ([]storage.MaintenanceTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]storage.MaintenanceTask, 0, len(s.maintenance))
	for _, t := range s.maintenance {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}
