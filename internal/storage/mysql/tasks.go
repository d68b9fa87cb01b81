package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modelshop/internal/status"
	"modelshop/internal/storage"
)

const taskColumns = `a.id, a.control_number, a.part_number, a.employee_id, a.assigned_by,
	a.start_date, a.end_date, a.actual_start_date, a.actual_end_date, a.on_hold_date,
	%s, a.hold_reason, a.reason, a.doc_upload_path, wom.priority`

const priorityOrder = `FIELD(LOWER(wom.priority), 'low', 'medium', 'high') DESC, a.id`

// ApplyTaskTransition locks the row, lets decide pick the change and writes it
// with a guard on the status that was read.
func (s *Storage) ApplyTaskTransition(ctx context.Context, id int64, scope storage.TaskScope, decide storage.TransitionFunc) (storage.TransitionResult, error) {
	const op = "storage.mysql.ApplyTaskTransition"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.TransitionResult{}, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	query := `SELECT control_number, employee_id, status FROM assign_task WHERE id = ?`
	args := []any{id}
	if scope.EmployeeID != "" {
		query += ` AND employee_id = ?`
		args = append(args, scope.EmployeeID)
	}
	if scope.AssignedBy != "" {
		query += ` AND assigned_by = ?`
		args = append(args, scope.AssignedBy)
	}
	query += ` FOR UPDATE`

	res := storage.TransitionResult{ID: id}
	var current sql.NullString
	err = tx.QueryRowContext(ctx, query, args...).Scan(&res.ControlNumber, &res.EmployeeID, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.TransitionResult{}, fmt.Errorf("%s: task %d: %w", op, id, storage.ErrNotFound)
	}
	if err != nil {
		return storage.TransitionResult{}, fmt.Errorf("%s: lock task %d: %w", op, id, err)
	}

	res.From = status.FromDB(nullString(current))
	change, err := decide(res.From)
	if err != nil {
		return storage.TransitionResult{}, fmt.Errorf("%s: %w", op, err)
	}
	res.To = change.To

	set, setArgs := transitionSet(change)
	update := `UPDATE assign_task SET ` + set + ` WHERE id = ? AND status <=> ?`
	setArgs = append(setArgs, id, current)

	exec, err := tx.ExecContext(ctx, update, setArgs...)
	if err != nil {
		return storage.TransitionResult{}, fmt.Errorf("%s: update task %d: %w", op, id, err)
	}
	affected, err := exec.RowsAffected()
	if err != nil {
		return storage.TransitionResult{}, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return storage.TransitionResult{}, fmt.Errorf("%s: task %d: %w", op, id, storage.ErrConflict)
	}

	var start, end, hold sql.NullTime
	var holdReason, reason sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT actual_start_date, actual_end_date, on_hold_date, hold_reason, reason
		FROM assign_task WHERE id = ?`, id,
	).Scan(&start, &end, &hold, &holdReason, &reason)
	if err != nil {
		return storage.TransitionResult{}, fmt.Errorf("%s: reload task %d: %w", op, id, err)
	}

	if err := tx.Commit(); err != nil {
		return storage.TransitionResult{}, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	res.ActualStartDate = nullTime(start)
	res.ActualEndDate = nullTime(end)
	res.OnHoldDate = nullTime(hold)
	res.HoldReason = nullString(holdReason)
	res.Reason = nullString(reason)

	return res, nil
}

// transitionSet renders the SET clause for a change.
func transitionSet(ch status.Change) (string, []any) {
	set := []string{"status = ?"}
	args := []any{ch.To.DBValue()}

	if ch.StampStart {
		set = append(set, "actual_start_date = COALESCE(actual_start_date, NOW())")
	}
	switch {
	case ch.StampEnd:
		set = append(set, "actual_end_date = NOW()")
	case ch.ClearEnd:
		set = append(set, "actual_end_date = NULL")
	}
	switch {
	case ch.StampHold:
		set = append(set, "on_hold_date = NOW()")
	case ch.ClearHold:
		set = append(set, "on_hold_date = NULL")
	}
	if ch.HoldReason != "" {
		set = append(set, "hold_reason = ?")
		args = append(args, ch.HoldReason)
	}
	switch {
	case ch.SetReason:
		set = append(set, "reason = ?")
		args = append(args, ch.Reason)
	case ch.ClearReason:
		set = append(set, "reason = NULL")
	}

	return strings.Join(set, ", "), args
}

func (s *Storage) TasksByStatus(ctx context.Context, filter storage.TaskFilter) ([]storage.Task, error) {
	const op = "storage.mysql.TasksByStatus"

	var (
		query string
		args  []any
	)

	switch {
	case filter.Finished:
		query = fmt.Sprintf(`SELECT `+taskColumns+`
			FROM assign_task a
			JOIN work_order_master wom ON a.control_number = wom.control_number
			WHERE EXISTS (
				SELECT 1 FROM part_master pm
				WHERE pm.control_number = a.control_number
				  AND pm.status = 'finished'
				  AND JSON_CONTAINS(a.part_number, JSON_QUOTE(pm.part_number))
			)
			ORDER BY `+priorityOrder, "'finished'")
	case filter.All:
		query = fmt.Sprintf(`SELECT `+taskColumns+`
			FROM assign_task a
			JOIN work_order_master wom ON a.control_number = wom.control_number
			ORDER BY `+priorityOrder, "a.status")
	case filter.Status == status.Pending:
		query = fmt.Sprintf(`SELECT `+taskColumns+`
			FROM assign_task a
			JOIN work_order_master wom ON a.control_number = wom.control_number
			WHERE a.status IS NULL
			ORDER BY `+priorityOrder, "a.status")
	default:
		query = fmt.Sprintf(`SELECT `+taskColumns+`
			FROM assign_task a
			JOIN work_order_master wom ON a.control_number = wom.control_number
			WHERE a.status = ?
			ORDER BY `+priorityOrder, "a.status")
		args = append(args, string(filter.Status))
	}

	tasks, err := s.queryTasks(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, nil
}

func (s *Storage) TasksByEmployee(ctx context.Context, employeeID string) ([]storage.Task, error) {
	const op = "storage.mysql.TasksByEmployee"

	query := fmt.Sprintf(`SELECT `+taskColumns+`
		FROM assign_task a
		JOIN work_order_master wom ON a.control_number = wom.control_number
		WHERE a.employee_id = ?
		ORDER BY a.id`, "a.status")

	tasks, err := s.queryTasks(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, nil
}

func (s *Storage) GetTask(ctx context.Context, controlNumber, id int64) (storage.Task, error) {
	const op = "storage.mysql.GetTask"

	query := fmt.Sprintf(`SELECT `+taskColumns+`
		FROM assign_task a
		JOIN work_order_master wom ON a.control_number = wom.control_number
		WHERE a.control_number = ? AND a.id = ?`, "a.status")

	tasks, err := s.queryTasks(ctx, query, controlNumber, id)
	if err != nil {
		return storage.Task{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(tasks) == 0 {
		return storage.Task{}, fmt.Errorf("%s: task %d/%d: %w", op, controlNumber, id, storage.ErrNotFound)
	}

	return tasks[0], nil
}

func (s *Storage) queryTasks(ctx context.Context, query string, args ...any) ([]storage.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]storage.Task, 0)
	for rows.Next() {
		var (
			t                                storage.Task
			parts                            []byte
			assignedBy, st, hold, reason     sql.NullString
			doc                              sql.NullString
			start, end, aStart, aEnd, onHold sql.NullTime
		)

		err := rows.Scan(&t.ID, &t.ControlNumber, &parts, &t.EmployeeID, &assignedBy,
			&start, &end, &aStart, &aEnd, &onHold,
			&st, &hold, &reason, &doc, &t.Priority)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}

		t.PartNumbers, err = decodePartNumbers(parts)
		if err != nil {
			return nil, err
		}
		t.AssignedBy = nullString(assignedBy)
		t.StartDate = nullTime(start)
		t.EndDate = nullTime(end)
		t.ActualStartDate = nullTime(aStart)
		t.ActualEndDate = nullTime(aEnd)
		t.OnHoldDate = nullTime(onHold)
		t.Status = nullString(st)
		t.HoldReason = nullString(hold)
		t.Reason = nullString(reason)
		t.DocUploadPath = nullString(doc)

		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}
