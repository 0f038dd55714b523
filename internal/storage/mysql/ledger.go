package mysql

import (
	"context"
	"fmt"

	"production-ledger/internal/storage"
)

const stmtInsertLedger = `INSERT INTO ledger_entries (id, project_id, amount, kind, source_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

// AppendLedgerEntry relies on the unique key (project_id, kind, source_id);
// a second debit for the same key comes back as storage.ErrDuplicateEntry.
func (s *Storage) AppendLedgerEntry(ctx context.Context, e storage.LedgerEntry) error {
	const op = "storage.mysql.AppendLedgerEntry"

	_, err := s.db.ExecContext(ctx, stmtInsertLedger, e.ID, e.ProjectID, e.Amount, e.Kind, e.SourceID, e.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: %s/%s/%s: %w", op, e.ProjectID, e.Kind, e.SourceID, storage.ErrDuplicateEntry)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) LedgerEntries(ctx context.Context, projectID string) ([]storage.LedgerEntry, error) {
	const op = "storage.mysql.LedgerEntries"

	query := `SELECT id, project_id, amount, kind, source_id, created_at FROM ledger_entries`
	var args []interface{}
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []storage.LedgerEntry
	for rows.Next() {
		var e storage.LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Amount, &e.Kind, &e.SourceID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return entries, nil
}

func (s *Storage) HasLedgerEntry(ctx context.Context, projectID string, kind storage.LedgerKind, sourceID string) (bool, error) {
	const op = "storage.mysql.HasLedgerEntry"

	stmt := `SELECT COUNT(*) FROM ledger_entries WHERE project_id = ? AND kind = ? AND source_id = ?`

	var n int
	if err := s.db.QueryRowContext(ctx, stmt, projectID, kind, sourceID).Scan(&n); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}
