package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"production-ledger/internal/storage"
	"production-ledger/internal/storage/memory"
)

func TestDebit_DuplicateIsRejected(t *testing.T) {
	ctx := context.Background()
	l := New(memory.New())

	id, err := l.Debit(ctx, "PRJ-1", decimal.NewFromInt(500), storage.MaterialDebit, "WO-1")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = l.Debit(ctx, "PRJ-1", decimal.NewFromInt(500), storage.MaterialDebit, "WO-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateDebit))
	assert.True(t, errors.Is(err, storage.ErrDuplicateEntry))

	ac, err := l.ActualCost(ctx, "PRJ-1")
	require.NoError(t, err)
	assert.Equal(t, "500", ac.String())
}

func TestDebit_SameSourceDifferentKindIsAllowed(t *testing.T) {
	ctx := context.Background()
	l := New(memory.New())

	_, err := l.Debit(ctx, "PRJ-1", decimal.NewFromInt(500), storage.MaterialDebit, "X-1")
	require.NoError(t, err)
	_, err = l.Debit(ctx, "PRJ-1", decimal.NewFromInt(250), storage.MaintenanceDebit, "X-1")
	require.NoError(t, err)

	ac, err := l.ActualCost(ctx, "PRJ-1")
	require.NoError(t, err)
	assert.Equal(t, "750", ac.String())
}

func TestDebit_Invalid(t *testing.T) {
	l := New(memory.New())

	tests := []struct {
		name    string
		project string
		amount  decimal.Decimal
		kind    storage.LedgerKind
		source  string
	}{
		{"empty project", "", decimal.NewFromInt(1), storage.MaterialDebit, "WO-1"},
		{"empty source", "PRJ-1", decimal.NewFromInt(1), storage.MaterialDebit, " "},
		{"unknown kind", "PRJ-1", decimal.NewFromInt(1), storage.LedgerKind("refund"), "WO-1"},
		{"negative amount", "PRJ-1", decimal.NewFromInt(-5), storage.MaterialDebit, "WO-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Debit(context.Background(), tt.project, tt.amount, tt.kind, tt.source)
			assert.True(t, errors.Is(err, ErrInvalidDebit))
		})
	}
}

func TestDebit_ConcurrentSameKeyChargesOnce(t *testing.T) {
	ctx := context.Background()
	l := New(memory.New())

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Debit(ctx, "PRJ-1", decimal.NewFromInt(850), storage.MaintenanceDebit, "PM-1")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, ErrDuplicateDebit) {
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, dupes)

	ac, err := l.ActualCost(ctx, "PRJ-1")
	require.NoError(t, err)
	assert.Equal(t, "850", ac.String())
}

func TestReplay(t *testing.T) {
	entries := []storage.LedgerEntry{
		{ProjectID: "A", Amount: decimal.RequireFromString("100.10")},
		{ProjectID: "B", Amount: decimal.NewFromInt(40)},
		{ProjectID: "A", Amount: decimal.RequireFromString("0.20")},
	}

	totals := Replay(entries)

	assert.Equal(t, "100.3", totals["A"].String())
	assert.Equal(t, "40", totals["B"].String())
	assert.True(t, Replay(nil)["A"].IsZero())
}

func TestActualCost_EqualsReplayOfStoredLog(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	l := New(store)

	for _, src := range []string{"WO-1", "WO-2", "WO-3"} {
		_, err := l.Debit(ctx, "PRJ-9", decimal.RequireFromString("333.33"), storage.MaterialDebit, src)
		require.NoError(t, err)
	}

	all, err := store.LedgerEntries(ctx, "")
	require.NoError(t, err)

	ac, err := l.ActualCost(ctx, "PRJ-9")
	require.NoError(t, err)
	assert.True(t, ac.Equal(Replay(all)["PRJ-9"]))
	assert.Equal(t, "999.99", ac.String())
}

func TestIsDebited(t *testing.T) {
	ctx := context.Background()
	l := New(memory.New())

	ok, err := l.IsDebited(ctx, "PRJ-1", storage.MaintenanceDebit, "PM-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = l.Debit(ctx, "PRJ-1", decimal.NewFromInt(10), storage.MaintenanceDebit, "PM-1")
	require.NoError(t, err)

	ok, err = l.IsDebited(ctx, "PRJ-1", storage.MaintenanceDebit, "PM-1")
	require.NoError(t, err)
	assert.True(t, ok)
}
