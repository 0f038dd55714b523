package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"production-ledger/internal/storage"
)

// GetFAIStatus returns the latest FAI record written for the part.
func (s *Storage) GetFAIStatus(ctx context.Context, partNumber string) (*storage.FAIRecord, error) {
	const op = "storage.mysql.GetFAIStatus"

	stmt := `SELECT seq, part_number, status, note, recorded_at FROM fai_records
			WHERE part_number = ? ORDER BY seq DESC LIMIT 1`

	var r storage.FAIRecord
	err := s.db.QueryRowContext(ctx, stmt, partNumber).Scan(&r.Seq, &r.PartNumber, &r.Status, &r.Note, &r.RecordedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: part %q: %w", op, partNumber, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &r, nil
}

func (s *Storage) RecordFAIStatus(ctx context.Context, partNumber string, status storage.FAIStatus, note string) (*storage.FAIRecord, error) {
	const op = "storage.mysql.RecordFAIStatus"

	stmt := `INSERT INTO fai_records (part_number, status, note, recorded_at) VALUES (?, ?, ?, ?)`

	recordedAt := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, stmt, partNumber, status, note, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: insert fai record for %q: %w", op, partNumber, err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%s: last insert id: %w", op, err)
	}

	return &storage.FAIRecord{
		Seq:        seq,
		PartNumber: partNumber,
		Status:     status,
		Note:       note,
		RecordedAt: recordedAt,
	}, nil
}

// FAIHistory returns every FAI record written for the part, oldest first.
func (s *Storage) FAIHistory(ctx context.Context, partNumber string) ([]storage.FAIRecord, error) {
	const op = "storage.mysql.FAIHistory"

	stmt := `SELECT seq, part_number, status, note, recorded_at FROM fai_records
			WHERE part_number = ? ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, stmt, partNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	records := []storage.FAIRecord{}
	for rows.Next() {
		var r storage.FAIRecord
		if err := rows.Scan(&r.Seq, &r.PartNumber, &r.Status, &r.Note, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return records, nil
}
