package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"production-ledger/internal/storage"
)

// Store keeps every registry and log in process memory. It backs the local
// environment and the service tests.
type Store struct {
	mu sync.RWMutex

	operators   map[string]storage.Operator
	machines    map[string]storage.Machine
	workOrders  map[string]storage.WorkOrder
	projects    map[string]storage.Project
	issues      map[string]storage.Issue
	maintenance map[string]storage.MaintenanceTask

	faiSeq int64
	fai    map[string][]storage.FAIRecord

	ledger     []storage.LedgerEntry
	ledgerKeys map[ledgerKey]struct{}
	trace      []storage.TraceabilityEntry
}

type ledgerKey struct {
	projectID string
	kind      storage.LedgerKind
	sourceID  string
}

func keyOf(e storage.LedgerEntry) ledgerKey {
	return ledgerKey{projectID: e.ProjectID, kind: e.Kind, sourceID: e.SourceID}
}

func New() *Store {
	return &Store{
		operators:   map[string]storage.Operator{},
		machines:    map[string]storage.Machine{},
		workOrders:  map[string]storage.WorkOrder{},
		projects:    map[string]storage.Project{},
		issues:      map[string]storage.Issue{},
		maintenance: map[string]storage.MaintenanceTask{},
		fai:         map[string][]storage.FAIRecord{},
		ledgerKeys:  map[ledgerKey]struct{}{},
	}
}

// Seed is the configuration data a store starts with.
type Seed struct {
	Operators   []storage.Operator        `json:"operators"`
	Machines    []storage.Machine         `json:"machines"`
	WorkOrders  []storage.WorkOrder       `json:"work_orders"`
	Projects    []storage.Project         `json:"projects"`
	Issues      []storage.Issue           `json:"issues"`
	Maintenance []storage.MaintenanceTask `json:"maintenance"`
	FAI         []storage.FAIRecord       `json:"fai"`
}

// Open decodes a JSON seed and returns a store loaded with it.
func Open(r io.Reader) (*Store, error) {
	const op = "storage.memory.Open"

	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("%s: decode seed: %w", op, err)
	}

	s := New()
	s.Load(seed)
	return s, nil
}

func (s *Store) Load(seed Seed) {
	for _, o := range seed.Operators {
		s.PutOperator(o)
	}
	for _, m := range seed.Machines {
		s.PutMachine(m)
	}
	for _, w := range seed.WorkOrders {
		s.PutWorkOrder(w)
	}
	for _, p := range seed.Projects {
		s.PutProject(p)
	}
	for _, i := range seed.Issues {
		s.PutIssue(i)
	}
	for _, t := range seed.Maintenance {
		s.PutMaintenance(t)
	}
	for _, r := range seed.FAI {
		s.putFAI(r)
	}
}

func (s *Store) PutOperator(o storage.Operator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operators[o.ID] = o
}

func (s *Store) PutMachine(m storage.Machine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Status == "" {
		m.Status = storage.MachineIdle
	}
	s.machines[m.ID] = m
}

func (s *Store) PutWorkOrder(w storage.WorkOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.Status == "" {
		w.Status = storage.WorkOrderPending
	}
	s.workOrders[w.ID] = w
}

func (s *Store) PutProject(p storage.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
}

func (s *Store) PutIssue(i storage.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues[i.ID] = i
}

func (s *Store) PutMaintenance(t storage.MaintenanceTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance[t.ID] = t
}

func (s *Store) putFAI(r storage.FAIRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faiSeq++
	r.Seq = s.faiSeq
	s.fai[r.PartNumber] = append(s.fai[r.PartNumber], r)
}
