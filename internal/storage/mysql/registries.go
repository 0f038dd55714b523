package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"production-ledger/internal/storage"
)

func (s *Storage) GetOperator(ctx context.Context, id string) (*storage.Operator, error) {
	const op = "storage.mysql.GetOperator"

	stmt := `SELECT id, name, competency_level FROM operators WHERE id = ?`

	var o storage.Operator
	err := s.db.QueryRowContext(ctx, stmt, id).Scan(&o.ID, &o.Name, &o.CompetencyLevel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: operator %q: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &o, nil
}

const machineColumns = `id, name, min_competency_level, status, current_job, fault_message`

func scanMachine(row interface{ Scan(...any) error }) (storage.Machine, error) {
	var (
		m     storage.Machine
		job   sql.NullString
		fault sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Name, &m.MinCompetencyLevel, &m.Status, &job, &fault); err != nil {
		return m, err
	}
	if job.Valid {
		m.CurrentJob = &job.String
	}
	m.FaultMessage = fault.String
	return m, nil
}

func (s *Storage) GetMachine(ctx context.Context, id string) (*storage.Machine, error) {
	const op = "storage.mysql.GetMachine"

	stmt := `SELECT ` + machineColumns + ` FROM machines WHERE id = ?`

	m, err := scanMachine(s.db.QueryRowContext(ctx, stmt, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: machine %q: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &m, nil
}

func (s *Storage) ListMachines(ctx context.Context) ([]storage.Machine, error) {
	const op = "storage.mysql.ListMachines"

	rows, err := s.db.QueryContext(ctx, `SELECT `+machineColumns+` FROM machines ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var machines []storage.Machine
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		machines = append(machines, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return machines, nil
}

func (s *Storage) SetMachineStatus(ctx context.Context, id string, status storage.MachineStatus, fault string) error {
	const op = "storage.mysql.SetMachineStatus"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var current storage.MachineStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM machines WHERE id = ? FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: machine %q: %w", op, id, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: lock machine %q: %w", op, id, err)
	}

	stmt := `UPDATE machines SET status = ?, fault_message = ? WHERE id = ?`
	if status == storage.MachineIdle {
		stmt = `UPDATE machines SET status = ?, fault_message = ?, current_job = NULL WHERE id = ?`
	}
	if _, err = tx.ExecContext(ctx, stmt, status, fault, id); err != nil {
		return fmt.Errorf("%s: update machine %q: %w", op, id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

func (s *Storage) GetWorkOrder(ctx context.Context, id string) (*storage.WorkOrder, error) {
	const op = "storage.mysql.GetWorkOrder"

	stmt := `SELECT id, part_number, project_id, target_quantity, material_cost, status FROM work_orders WHERE id = ?`

	var w storage.WorkOrder
	err := s.db.QueryRowContext(ctx, stmt, id).Scan(&w.ID, &w.PartNumber, &w.ProjectID, &w.TargetQuantity, &w.MaterialCost, &w.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: work order %q: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &w, nil
}

func (s *Storage) GetProject(ctx context.Context, id string) (*storage.Project, error) {
	const op = "storage.mysql.GetProject"

	stmt := `SELECT id, name, pv, ev, bac FROM projects WHERE id = ?`

	var p storage.Project
	err := s.db.QueryRowContext(ctx, stmt, id).Scan(&p.ID, &p.Name, &p.PV, &p.EV, &p.BAC)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: project %q: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

func (s *Storage) OpenIssues(ctx context.Context) ([]storage.Issue, error) {
	const op = "storage.mysql.OpenIssues"

	stmt := `SELECT id, part_number, title, severity, status FROM ncr_issues WHERE status = ? ORDER BY id`

	rows, err := s.db.QueryContext(ctx, stmt, storage.IssueOpen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var issues []storage.Issue
	for rows.Next() {
		var i storage.Issue
		if err := rows.Scan(&i.ID, &i.PartNumber, &i.Title, &i.Severity, &i.Status); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		issues = append(issues, i)
	}

	return issues, rows.Err()
}

func (s *Storage) PendingMaintenance(ctx context.Context) ([]storage.MaintenanceTask, error) {
	const op = "storage.mysql.PendingMaintenance"

	stmt := `SELECT id, machine_id, project_id, description, cost, due_at FROM maintenance_tasks ORDER BY id`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tasks []storage.MaintenanceTask
	for rows.Next() {
		var t storage.MaintenanceTask
		if err := rows.Scan(&t.ID, &t.MachineID, &t.ProjectID, &t.Description, &t.Cost, &t.DueAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}
