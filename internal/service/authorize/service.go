package authorize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"production-ledger/internal/service/competency"
	"production-ledger/internal/service/ledger"
	"production-ledger/internal/service/productionlock"
	"production-ledger/internal/storage"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownRequest means the operator, machine or work order does not
	// exist. It is a request error, not an authorization outcome.
	ErrUnknownRequest = errors.New("unknown operator, machine or work order")
)

type Registry interface {
	GetOperator(ctx context.Context, id string) (*storage.Operator, error)
	GetMachine(ctx context.Context, id string) (*storage.Machine, error)
	GetWorkOrder(ctx context.Context, id string) (*storage.WorkOrder, error)
}

type LockChecker interface {
	Check(ctx context.Context, partNumber string) (productionlock.State, error)
}

type EntryBuilder interface {
	NewEntry(projectID string, amount decimal.Decimal, kind storage.LedgerKind, sourceID string) (storage.LedgerEntry, error)
}

type Committer interface {
	CommitStart(ctx context.Context, c storage.StartCommit) error
	CompleteJob(ctx context.Context, machineID string, trace storage.TraceabilityEntry) (string, error)
	Traceability(ctx context.Context, filter storage.TraceabilityFilter) ([]storage.TraceabilityEntry, error)
}

type Service struct {
	registry      Registry
	lock          LockChecker
	ledger        EntryBuilder
	store         Committer
	lookupTimeout time.Duration

	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	machines map[string]*machineLock
}

type machineLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(registry Registry, lock LockChecker, ledger EntryBuilder, store Committer, lookupTimeout time.Duration) *Service {
	if lookupTimeout <= 0 {
		lookupTimeout = 2 * time.Second
	}
	return &Service{
		registry:      registry,
		lock:          lock,
		ledger:        ledger,
		store:         store,
		lookupTimeout: lookupTimeout,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         func() string { return uuid.New().String() },
		machines:      make(map[string]*machineLock),
	}
}

// lockMachine serializes evaluations per machine inside this process and
// returns the matching unlock. An entry lives only while someone holds or
// waits on it. The store's compare-and-set on the machine row covers other
// processes.
func (s *Service) lockMachine(machineID string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.machines[machineID]
	if !ok {
		l = &machineLock{}
		s.machines[machineID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		defer s.mu.Unlock()
		l.refs--
		if l.refs == 0 {
			delete(s.machines, machineID)
		}
	}
}

func failed(reason string) Decision {
	return Decision{Outcome: Failed, Remediation: RemediationRetry, Reason: reason}
}

// Start decides whether the operator may start the work order on the
// machine. Competency is checked before the FAI lock. A work order is
// started once: one that is in progress or completed is refused. On approval the
// machine claim, the material debit and the traceability record are
// committed as one unit; if that fails nothing is applied.
//
// The returned error is non-nil only for bad or unknown requests and for
// contract violations (a duplicate material debit, an invalid debit).
func (s *Service) Start(ctx context.Context, req Request) (Decision, error) {
	const op = "service.authorize.Start"

	if strings.TrimSpace(req.OperatorID) == "" || strings.TrimSpace(req.MachineID) == "" || strings.TrimSpace(req.WorkOrderID) == "" {
		return Decision{}, fmt.Errorf("%s: operator_id, machine_id and work_order_id are required: %w", op, ErrInvalidRequest)
	}

	defer s.lockMachine(req.MachineID)()

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	var (
		operator  *storage.Operator
		machine   *storage.Machine
		workOrder *storage.WorkOrder
	)

	g, gCtx := errgroup.WithContext(lookupCtx)
	g.Go(func() error {
		var err error
		operator, err = s.registry.GetOperator(gCtx, req.OperatorID)
		return err
	})
	g.Go(func() error {
		var err error
		machine, err = s.registry.GetMachine(gCtx, req.MachineID)
		return err
	})
	g.Go(func() error {
		var err error
		workOrder, err = s.registry.GetWorkOrder(gCtx, req.WorkOrderID)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Decision{}, fmt.Errorf("%s: %w: %w", op, ErrUnknownRequest, err)
		}
		return failed(fmt.Sprintf("registry lookup: %v", err)), nil
	}

	gate := competency.Authorize(*operator, *machine)
	if !gate.Allowed {
		return Decision{
			Outcome:       RejectedSkillGap,
			Remediation:   RemediationTraining,
			Reason:        fmt.Sprintf("machine %s requires competency level %d, operator has %d", machine.ID, gate.RequiredLevel, gate.ActualLevel),
			RequiredLevel: gate.RequiredLevel,
			ActualLevel:   gate.ActualLevel,
		}, nil
	}

	lock, err := s.lock.Check(lookupCtx, workOrder.PartNumber)
	if err != nil {
		return failed(fmt.Sprintf("fai lookup: %v", err)), nil
	}
	if lock.Locked {
		if lock.Reason == productionlock.ReasonRejected {
			return Decision{
				Outcome:     RejectedQualityHold,
				Remediation: RemediationOpenCAPA,
				Reason:      fmt.Sprintf("FAI for %s was rejected; production is on quality hold until a corrective action supersedes it", workOrder.PartNumber),
				PartNumber:  workOrder.PartNumber,
				FAIStatus:   lock.FAIStatus,
			}, nil
		}
		return Decision{
			Outcome:     RejectedNotFAIApproved,
			Remediation: RemediationCompleteFAI,
			Reason:      fmt.Sprintf("FAI for %s is not approved", workOrder.PartNumber),
			PartNumber:  workOrder.PartNumber,
			FAIStatus:   lock.FAIStatus,
		}, nil
	}

	if workOrder.Status != storage.WorkOrderPending {
		return notPending(workOrder.ID, workOrder.Status), nil
	}

	if machine.Status != storage.MachineIdle {
		return busy(machine.ID, machine.Status), nil
	}

	entry, err := s.ledger.NewEntry(workOrder.ProjectID, workOrder.MaterialCost, storage.MaterialDebit, workOrder.ID)
	if err != nil {
		return Decision{}, fmt.Errorf("%s: %w", op, err)
	}

	trace := storage.TraceabilityEntry{
		ID:          s.newID(),
		Timestamp:   s.now(),
		Action:      storage.ActionProductionStarted,
		MachineID:   machine.ID,
		OperatorID:  operator.ID,
		WorkOrderID: workOrder.ID,
		PartNumber:  workOrder.PartNumber,
		ProjectID:   workOrder.ProjectID,
		Note:        fmt.Sprintf("material debit %s to %s", workOrder.MaterialCost.StringFixed(2), workOrder.ProjectID),
	}

	err = s.store.CommitStart(ctx, storage.StartCommit{
		MachineID:   machine.ID,
		WorkOrderID: workOrder.ID,
		Entry:       entry,
		Trace:       trace,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrMachineBusy):
			return busy(machine.ID, storage.MachineRunning), nil
		case errors.Is(err, storage.ErrWorkOrderNotPending):
			return notPending(workOrder.ID, storage.WorkOrderInProgress), nil
		case errors.Is(err, storage.ErrDuplicateEntry):
			return Decision{}, fmt.Errorf("%s: %w: %w", op, ledger.ErrDuplicateDebit, err)
		default:
			return failed(fmt.Sprintf("commit: %v", err)), nil
		}
	}

	return Decision{
		Outcome:       Approved,
		PartNumber:    workOrder.PartNumber,
		LedgerEntryID: entry.ID,
		TraceID:       trace.ID,
	}, nil
}

func busy(machineID string, status storage.MachineStatus) Decision {
	return Decision{
		Outcome:       MachineBusy,
		Remediation:   RemediationOtherMachine,
		Reason:        fmt.Sprintf("machine %s is %s", machineID, status),
		MachineStatus: status,
	}
}

func notPending(workOrderID string, status storage.WorkOrderStatus) Decision {
	return Decision{
		Outcome:         WorkOrderNotPending,
		Remediation:     RemediationOtherOrder,
		Reason:          fmt.Sprintf("work order %s is %s", workOrderID, status),
		WorkOrderStatus: status,
	}
}

// Complete returns a running machine to idle, completes its work order and
// records the completion against a registered operator. It returns the work
// order the machine was running.
func (s *Service) Complete(ctx context.Context, machineID, operatorID string) (string, error) {
	const op = "service.authorize.Complete"

	if strings.TrimSpace(machineID) == "" || strings.TrimSpace(operatorID) == "" {
		return "", fmt.Errorf("%s: operator_id and machine_id are required: %w", op, ErrInvalidRequest)
	}

	if _, err := s.registry.GetOperator(ctx, operatorID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w: %w", op, ErrUnknownRequest, err)
		}
		return "", fmt.Errorf("%s: operator lookup: %w", op, err)
	}

	defer s.lockMachine(machineID)()

	job, err := s.store.CompleteJob(ctx, machineID, storage.TraceabilityEntry{
		ID:         s.newID(),
		Timestamp:  s.now(),
		Action:     storage.ActionJobCompleted,
		MachineID:  machineID,
		OperatorID: operatorID,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return job, nil
}

func (s *Service) Traceability(ctx context.Context, filter storage.TraceabilityFilter) ([]storage.TraceabilityEntry, error) {
	const op = "service.authorize.Traceability"

	if filter.WorkOrderID == "" && filter.PartNumber == "" {
		return nil, fmt.Errorf("%s: work_order_id or part_number is required: %w", op, ErrInvalidRequest)
	}

	entries, err := s.store.Traceability(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}
