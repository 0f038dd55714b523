package memory

import (
	"context"
	"fmt"

	"production-ledger/internal/storage"
)

func (s *Store) AppendLedgerEntry(_ context.Context, e storage.LedgerEntry) error {
	const op = "storage.memory.AppendLedgerEntry"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ledgerKeys[keyOf(e)]; ok {
		return fmt.Errorf("%s: %s/%s/%s: %w", op, e.ProjectID, e.Kind, e.SourceID, storage.ErrDuplicateEntry)
	}
	s.appendLedgerLocked(e)
	return nil
}

func (s *Store) appendLedgerLocked(e storage.LedgerEntry) {
	s.ledgerKeys[keyOf(e)] = struct{}{}
	s.ledger = append(s.ledger, e)
}

// LedgerEntries returns the log in append order. An empty projectID returns
// every project's entries.
func (s *Store) LedgerEntries(_ context.Context, projectID string) ([]storage.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []storage.LedgerEntry
	for _, e := range s.ledger {
		if projectID == "" || e.ProjectID == projectID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *Store) HasLedgerEntry(_ context.Context, projectID string, kind storage.LedgerKind, sourceID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.ledgerKeys[ledgerKey{projectID: projectID, kind: kind, sourceID: sourceID}]
	return ok, nil
}
