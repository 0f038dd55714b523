package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"production-ledger/internal/storage"
)

const stmtInsertTrace = `INSERT INTO traceability_log
	(id, ts, action, machine_id, operator_id, work_order_id, part_number, project_id, note)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertTrace(ctx context.Context, tx *sql.Tx, t storage.TraceabilityEntry) error {
	_, err := tx.ExecContext(ctx, stmtInsertTrace, t.ID, t.Timestamp, t.Action, t.MachineID, t.OperatorID,
		t.WorkOrderID, t.PartNumber, t.ProjectID, t.Note)
	return err
}

// CommitStart claims the machine and the work order, debits the ledger and
// writes the traceability record in one transaction. The machine row is
// locked first, then the work order row, so concurrent starts on the same
// machine or the same work order serialize.
func (s *Storage) CommitStart(ctx context.Context, c storage.StartCommit) error {
	const op = "storage.mysql.CommitStart"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var status storage.MachineStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM machines WHERE id = ? FOR UPDATE`, c.MachineID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: machine %q: %w", op, c.MachineID, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: lock machine %q: %w", op, c.MachineID, err)
	}
	if status != storage.MachineIdle {
		return fmt.Errorf("%s: machine %q is %s: %w", op, c.MachineID, status, storage.ErrMachineBusy)
	}

	var woStatus storage.WorkOrderStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM work_orders WHERE id = ? FOR UPDATE`, c.WorkOrderID).Scan(&woStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: work order %q: %w", op, c.WorkOrderID, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: lock work order %q: %w", op, c.WorkOrderID, err)
	}
	if woStatus != storage.WorkOrderPending {
		return fmt.Errorf("%s: work order %q is %s: %w", op, c.WorkOrderID, woStatus, storage.ErrWorkOrderNotPending)
	}

	_, err = tx.ExecContext(ctx, `UPDATE machines SET status = ?, current_job = ? WHERE id = ?`,
		storage.MachineRunning, c.WorkOrderID, c.MachineID)
	if err != nil {
		return fmt.Errorf("%s: mark machine %q running: %w", op, c.MachineID, err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE work_orders SET status = ? WHERE id = ?`,
		storage.WorkOrderInProgress, c.WorkOrderID)
	if err != nil {
		return fmt.Errorf("%s: mark work order %q in progress: %w", op, c.WorkOrderID, err)
	}

	e := c.Entry
	_, err = tx.ExecContext(ctx, stmtInsertLedger, e.ID, e.ProjectID, e.Amount, e.Kind, e.SourceID, e.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: %s/%s/%s: %w", op, e.ProjectID, e.Kind, e.SourceID, storage.ErrDuplicateEntry)
		}
		return fmt.Errorf("%s: ledger debit: %w", op, err)
	}

	if err := insertTrace(ctx, tx, c.Trace); err != nil {
		return fmt.Errorf("%s: traceability: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

func (s *Storage) CompleteJob(ctx context.Context, machineID string, trace storage.TraceabilityEntry) (string, error) {
	const op = "storage.mysql.CompleteJob"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var (
		status     storage.MachineStatus
		job        sql.NullString
		partNumber sql.NullString
		projectID  sql.NullString
	)
	err = tx.QueryRowContext(ctx, `
		SELECT m.status, m.current_job, w.part_number, w.project_id
		FROM machines m
		LEFT JOIN work_orders w ON w.id = m.current_job
		WHERE m.id = ? FOR UPDATE`, machineID).Scan(&status, &job, &partNumber, &projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: machine %q: %w", op, machineID, storage.ErrNotFound)
		}
		return "", fmt.Errorf("%s: lock machine %q: %w", op, machineID, err)
	}
	if status != storage.MachineRunning || !job.Valid {
		return "", fmt.Errorf("%s: machine %q is %s: %w", op, machineID, status, storage.ErrMachineNotRunning)
	}

	_, err = tx.ExecContext(ctx, `UPDATE machines SET status = ?, current_job = NULL WHERE id = ?`,
		storage.MachineIdle, machineID)
	if err != nil {
		return "", fmt.Errorf("%s: release machine %q: %w", op, machineID, err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE work_orders SET status = ? WHERE id = ?`,
		storage.WorkOrderCompleted, job.String)
	if err != nil {
		return "", fmt.Errorf("%s: complete work order %q: %w", op, job.String, err)
	}

	trace.WorkOrderID = job.String
	trace.PartNumber = partNumber.String
	trace.ProjectID = projectID.String
	if err := insertTrace(ctx, tx, trace); err != nil {
		return "", fmt.Errorf("%s: traceability: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return job.String, nil
}

func (s *Storage) Traceability(ctx context.Context, filter storage.TraceabilityFilter) ([]storage.TraceabilityEntry, error) {
	const op = "storage.mysql.Traceability"

	query := `SELECT id, ts, action, machine_id, operator_id, work_order_id, part_number, project_id, note
		FROM traceability_log WHERE 1 = 1`
	var args []interface{}

	if filter.WorkOrderID != "" {
		query += ` AND work_order_id = ?`
		args = append(args, filter.WorkOrderID)
	}
	if filter.PartNumber != "" {
		query += ` AND part_number = ?`
		args = append(args, filter.PartNumber)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []storage.TraceabilityEntry
	for rows.Next() {
		var t storage.TraceabilityEntry
		err := rows.Scan(&t.ID, &t.Timestamp, &t.Action, &t.MachineID, &t.OperatorID, &t.WorkOrderID,
			&t.PartNumber, &t.ProjectID, &t.Note)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		entries = append(entries, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return entries, nil
}
