package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"modelshop/internal/storage"
)

// AssignTask inserts one assign_task row and one notification per resolved
// employee. Names are resolved first; if any name is unknown nothing is written.
func (s *Storage) AssignTask(ctx context.Context, a storage.NewAssignment) (storage.AssignmentOutcome, error) {
	const op = "storage.mysql.AssignTask"

	names := make([]string, 0, len(a.EmployeeNames))
	for _, n := range a.EmployeeNames {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return storage.AssignmentOutcome{}, fmt.Errorf("%s: %w", op, &storage.UnresolvedEmployeesError{ControlNumber: a.ControlNumber})
	}

	partsJSON, err := json.Marshal(a.PartNumbers)
	if err != nil {
		return storage.AssignmentOutcome{}, fmt.Errorf("%s: encode parts: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.AssignmentOutcome{}, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT employee_id, TRIM(employee_name)
		FROM employee_master
		WHERE TRIM(employee_name) IN (`+placeholders(len(names))+`)
		ORDER BY employee_id`, stringArgs(names)...)
	if err != nil {
		return storage.AssignmentOutcome{}, fmt.Errorf("%s: resolve employees: %w", op, err)
	}

	var employeeIDs []string
	found := make(map[string]bool, len(names))
	seenID := make(map[string]bool)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return storage.AssignmentOutcome{}, fmt.Errorf("%s: scan employee: %w", op, err)
		}
		found[name] = true
		if !seenID[id] {
			seenID[id] = true
			employeeIDs = append(employeeIDs, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return storage.AssignmentOutcome{}, fmt.Errorf("%s: resolve employees: %w", op, err)
	}
	rows.Close()

	var missing []string
	for _, n := range names {
		if !found[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return storage.AssignmentOutcome{}, fmt.Errorf("%s: %w", op, &storage.UnresolvedEmployeesError{ControlNumber: a.ControlNumber, Names: missing})
	}

	insertTask, err := tx.PrepareContext(ctx, `
		INSERT INTO assign_task (control_number, part_number, employee_id, start_date, end_date, doc_upload_path, assigned_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return storage.AssignmentOutcome{}, fmt.Errorf("%s: prepare task insert: %w", op, err)
	}
	defer insertTask.Close()

	insertNote, err := tx.PrepareContext(ctx, `INSERT INTO notifications (employee_id, message, is_read) VALUES (?, ?, FALSE)`)
	if err != nil {
		return storage.AssignmentOutcome{}, fmt.Errorf("%s: prepare notification insert: %w", op, err)
	}
	defer insertNote.Close()

	out := storage.AssignmentOutcome{EmployeeIDs: employeeIDs}
	message := fmt.Sprintf("You have been assigned a new task: %d", a.ControlNumber)
	for _, empID := range employeeIDs {
		res, err := insertTask.ExecContext(ctx, a.ControlNumber, partsJSON, empID, a.StartDate, a.EndDate, a.DocUploadPath, a.AssignedBy)
		if err != nil {
			return storage.AssignmentOutcome{}, fmt.Errorf("%s: insert task for %s: %w", op, empID, classify(err))
		}
		id, err := res.LastInsertId()
		if err != nil {
			return storage.AssignmentOutcome{}, fmt.Errorf("%s: last insert id: %w", op, err)
		}
		out.TaskIDs = append(out.TaskIDs, id)

		if _, err := insertNote.ExecContext(ctx, empID, message); err != nil {
			return storage.AssignmentOutcome{}, fmt.Errorf("%s: insert notification for %s: %w", op, empID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.AssignmentOutcome{}, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return out, nil
}
