package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"production-ledger/internal/service/ledger"
	"production-ledger/internal/storage"
)

var ErrAlertNotFound = errors.New("alert not found")

type ResolveStatus string

const (
	Resolved        ResolveStatus = "resolved"
	NotResolvable   ResolveStatus = "not_resolvable"
	AlreadyResolved ResolveStatus = "already_resolved"
)

type ResolveResult struct {
	Status  ResolveStatus    `json:"status"`
	AlertID string           `json:"alert_id"`
	EntryID string           `json:"entry_id,omitempty"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
}

type Sources interface {
	ListMachines(ctx context.Context) ([]storage.Machine, error)
	OpenIssues(ctx context.Context) ([]storage.Issue, error)
	PendingMaintenance(ctx context.Context) ([]storage.MaintenanceTask, error)
}

type Debiter interface {
	Debit(ctx context.Context, projectID string, amount decimal.Decimal, kind storage.LedgerKind, sourceID string) (string, error)
	IsDebited(ctx context.Context, projectID string, kind storage.LedgerKind, sourceID string) (bool, error)
}

type Service struct {
	sources Sources
	ledger  Debiter
}

func NewService(sources Sources, ledger Debiter) *Service {
	return &Service{sources: sources, ledger: ledger}
}

func (s *Service) poll(ctx context.Context) ([]Alert, error) {
	var (
		machines    []storage.Machine
		issues      []storage.Issue
		maintenance []storage.MaintenanceTask
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		machines, err = s.sources.ListMachines(gCtx)
		if err != nil {
			return fmt.Errorf("machines: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		issues, err = s.sources.OpenIssues(gCtx)
		if err != nil {
			return fmt.Errorf("issues: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		maintenance, err = s.sources.PendingMaintenance(gCtx)
		if err != nil {
			return fmt.Errorf("maintenance: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Aggregate(machines, issues, maintenance), nil
}

// Alerts runs one aggregation pass. Maintenance alerts that were already
// charged to the ledger are left out.
func (s *Service) Alerts(ctx context.Context) ([]Alert, error) {
	const op = "service.alerts.Alerts"

	feed, err := s.poll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	open := feed[:0]
	for _, a := range feed {
		if a.Kind == KindMaintenance {
			done, err := s.ledger.IsDebited(ctx, a.ProjectID, storage.MaintenanceDebit, a.SourceID)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			if done {
				continue
			}
		}
		open = append(open, a)
	}

	return open, nil
}

// Resolve finds the alert by source id in a fresh pass and resolves it.
func (s *Service) Resolve(ctx context.Context, alertID string) (ResolveResult, error) {
	const op = "service.alerts.Resolve"

	feed, err := s.poll(ctx)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, a := range feed {
		if a.SourceID == alertID {
			return s.ResolveAlert(ctx, a)
		}
	}

	return ResolveResult{}, fmt.Errorf("%s: %q: %w", op, alertID, ErrAlertNotFound)
}

// ResolveAlert charges a maintenance alert's cost to its project. Any other
// kind is reported as not resolvable.
func (s *Service) ResolveAlert(ctx context.Context, a Alert) (ResolveResult, error) {
	const op = "service.alerts.ResolveAlert"

	if a.Kind != KindMaintenance || a.CostIfResolved == nil {
		return ResolveResult{Status: NotResolvable, AlertID: a.SourceID}, nil
	}

	entryID, err := s.ledger.Debit(ctx, a.ProjectID, *a.CostIfResolved, storage.MaintenanceDebit, a.SourceID)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateDebit) {
			return ResolveResult{Status: AlreadyResolved, AlertID: a.SourceID}, nil
		}
		return ResolveResult{}, fmt.Errorf("%s: %w", op, err)
	}

	amount := *a.CostIfResolved
	return ResolveResult{Status: Resolved, AlertID: a.SourceID, EntryID: entryID, Amount: &amount}, nil
}
