package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"production-ledger/internal/storage"
)

var (
	// ErrDuplicateDebit means a (project, kind, source) key was debited
	// before. It is a caller bug and is never retried.
	ErrDuplicateDebit = errors.New("duplicate ledger debit")
	ErrInvalidDebit   = errors.New("invalid ledger debit")
)

type EntryLog interface {
	AppendLedgerEntry(ctx context.Context, e storage.LedgerEntry) error
	LedgerEntries(ctx context.Context, projectID string) ([]storage.LedgerEntry, error)
	HasLedgerEntry(ctx context.Context, projectID string, kind storage.LedgerKind, sourceID string) (bool, error)
}

// Ledger is the append-only cost record per project. Actual cost is always
// folded from the stored entries.
type Ledger struct {
	log   EntryLog
	now   func() time.Time
	newID func() string
}

func New(log EntryLog) *Ledger {
	return &Ledger{
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
}

// NewEntry validates a debit and stamps it with an id and time without
// writing it. Callers that need the debit inside a larger unit of work use
// this and hand the entry to their store.
func (l *Ledger) NewEntry(projectID string, amount decimal.Decimal, kind storage.LedgerKind, sourceID string) (storage.LedgerEntry, error) {
	const op = "service.ledger.NewEntry"

	switch {
	case strings.TrimSpace(projectID) == "":
		return storage.LedgerEntry{}, fmt.Errorf("%s: empty project id: %w", op, ErrInvalidDebit)
	case strings.TrimSpace(sourceID) == "":
		return storage.LedgerEntry{}, fmt.Errorf("%s: empty source id: %w", op, ErrInvalidDebit)
	case !kind.Valid():
		return storage.LedgerEntry{}, fmt.Errorf("%s: unknown kind %q: %w", op, kind, ErrInvalidDebit)
	case amount.IsNegative():
		return storage.LedgerEntry{}, fmt.Errorf("%s: negative amount %s: %w", op, amount, ErrInvalidDebit)
	}

	return storage.LedgerEntry{
		ID:        l.newID(),
		ProjectID: projectID,
		Amount:    amount,
		Kind:      kind,
		SourceID:  sourceID,
		CreatedAt: l.now(),
	}, nil
}

// Debit appends one entry and returns its id.
func (l *Ledger) Debit(ctx context.Context, projectID string, amount decimal.Decimal, kind storage.LedgerKind, sourceID string) (string, error) {
	const op = "service.ledger.Debit"

	entry, err := l.NewEntry(projectID, amount, kind, sourceID)
	if err != nil {
		return "", err
	}

	if err := l.log.AppendLedgerEntry(ctx, entry); err != nil {
		if errors.Is(err, storage.ErrDuplicateEntry) {
			return "", fmt.Errorf("%s: %w: %w", op, ErrDuplicateDebit, err)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return entry.ID, nil
}

func (l *Ledger) ActualCost(ctx context.Context, projectID string) (decimal.Decimal, error) {
	const op = "service.ledger.ActualCost"

	entries, err := l.log.LedgerEntries(ctx, projectID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	return Replay(entries)[projectID], nil
}

func (l *Ledger) Entries(ctx context.Context, projectID string) ([]storage.LedgerEntry, error) {
	const op = "service.ledger.Entries"

	entries, err := l.log.LedgerEntries(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}

func (l *Ledger) IsDebited(ctx context.Context, projectID string, kind storage.LedgerKind, sourceID string) (bool, error) {
	const op = "service.ledger.IsDebited"

	ok, err := l.log.HasLedgerEntry(ctx, projectID, kind, sourceID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

// Replay folds a log from empty state into actual cost per project.
func Replay(entries []storage.LedgerEntry) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		totals[e.ProjectID] = totals[e.ProjectID].Add(e.Amount)
	}
	return totals
}
