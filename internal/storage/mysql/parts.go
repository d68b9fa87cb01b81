package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modelshop/internal/status"
	"modelshop/internal/storage"
)

func (s *Storage) SaveParts(ctx context.Context, controlNumber int64, parts []storage.NewPart, createdBy string) error {
	const op = "storage.mysql.SaveParts"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM work_order_master WHERE control_number = ?`, controlNumber).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: control number %d: %w", op, controlNumber, storage.ErrInvalidReference)
	}
	if err != nil {
		return fmt.Errorf("%s: check control number %d: %w", op, controlNumber, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO part_master (control_number, part_number, description, quantity, status, created_id)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare insert: %w", op, err)
	}
	defer stmt.Close()

	for _, p := range parts {
		_, err := stmt.ExecContext(ctx, controlNumber, p.PartNumber, p.Description, p.Quantity, string(status.PartNotStarted), createdBy)
		if err != nil {
			return fmt.Errorf("%s: insert part %s: %w", op, p.PartNumber, classify(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

func (s *Storage) PartNumbers(ctx context.Context, controlNumber int64) ([]string, error) {
	const op = "storage.mysql.PartNumbers"

	rows, err := s.db.QueryContext(ctx, `SELECT part_number FROM part_master WHERE control_number = ? ORDER BY id`, controlNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	parts := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		parts = append(parts, p)
	}

	return parts, rows.Err()
}

func (s *Storage) PartDetails(ctx context.Context, controlNumber int64, partNumbers []string) ([]storage.PartDetail, error) {
	const op = "storage.mysql.PartDetails"

	details := make([]storage.PartDetail, 0, len(partNumbers))
	if len(partNumbers) == 0 {
		return details, nil
	}

	query := `SELECT part_number, quantity, description FROM part_master
		WHERE control_number = ? AND part_number IN (` + placeholders(len(partNumbers)) + `)
		ORDER BY id`
	args := append([]any{controlNumber}, stringArgs(partNumbers)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d storage.PartDetail
		if err := rows.Scan(&d.PartNumber, &d.Quantity, &d.Description); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		details = append(details, d)
	}

	return details, rows.Err()
}

// ActiveControlNumbers lists control numbers with at least one part not finished.
func (s *Storage) ActiveControlNumbers(ctx context.Context) ([]int64, error) {
	const op = "storage.mysql.ActiveControlNumbers"

	rows, err := s.db.QueryContext(ctx, `
		SELECT control_number
		FROM part_master
		GROUP BY control_number
		HAVING SUM(status <> 'finished') > 0
		ORDER BY control_number`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	numbers := make([]int64, 0)
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		numbers = append(numbers, n)
	}

	return numbers, rows.Err()
}

// FinishControlNumber marks every part of the control number finished and
// returns how many rows actually changed.
func (s *Storage) FinishControlNumber(ctx context.Context, controlNumber int64) (int64, error) {
	const op = "storage.mysql.FinishControlNumber"

	res, err := s.db.ExecContext(ctx,
		`UPDATE part_master SET status = ? WHERE control_number = ? AND status <> ?`,
		string(status.PartFinished), controlNumber, string(status.PartFinished),
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", op, err)
	}

	return n, nil
}

type partKey struct {
	controlNumber int64
	partNumber    string
}

type partRow struct {
	key    partKey
	status status.Part
}

type assignmentRow struct {
	controlNumber int64
	partNumbers   []string
	status        status.Task
}

type partUpdate struct {
	key    partKey
	status status.Part
}

// planPartUpdates derives the status of every part from the assignments that
// cover it and returns only rows whose stored value differs. Finished parts are
// closed by an operator and stay untouched.
func planPartUpdates(parts []partRow, assignments []assignmentRow) []partUpdate {
	covering := make(map[partKey][]status.Task)
	for _, a := range assignments {
		seen := make(map[string]struct{}, len(a.partNumbers))
		for _, p := range a.partNumbers {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			k := partKey{controlNumber: a.controlNumber, partNumber: p}
			covering[k] = append(covering[k], a.status)
		}
	}

	var updates []partUpdate
	for _, p := range parts {
		if p.status == status.PartFinished {
			continue
		}
		derived := status.DerivePartStatus(covering[p.key])
		if derived != p.status {
			updates = append(updates, partUpdate{key: p.key, status: derived})
		}
	}

	return updates
}

// RecomputePartStatuses refreshes the derived part statuses of one control
// number, or of all of them when controlNumber is nil. It returns the number of
// rows changed.
func (s *Storage) RecomputePartStatuses(ctx context.Context, controlNumber *int64) (int, error) {
	const op = "storage.mysql.RecomputePartStatuses"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	partsQuery := `SELECT control_number, part_number, status FROM part_master`
	assignQuery := `SELECT control_number, part_number, status FROM assign_task`
	var args []any
	if controlNumber != nil {
		partsQuery += ` WHERE control_number = ?`
		assignQuery += ` WHERE control_number = ?`
		args = append(args, *controlNumber)
	}
	partsQuery += ` FOR UPDATE`

	parts, err := lockParts(ctx, tx, partsQuery, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	assignments, err := loadAssignments(ctx, tx, assignQuery, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	updates := planPartUpdates(parts, assignments)
	if len(updates) == 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE part_master SET status = ? WHERE control_number = ? AND part_number = ?`)
	if err != nil {
		return 0, fmt.Errorf("%s: prepare update: %w", op, err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, string(u.status), u.key.controlNumber, u.key.partNumber); err != nil {
			return 0, fmt.Errorf("%s: update part %d/%s: %w", op, u.key.controlNumber, u.key.partNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return len(updates), nil
}

func lockParts(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]partRow, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lock parts: %w", err)
	}
	defer rows.Close()

	var parts []partRow
	for rows.Next() {
		var (
			p  partRow
			st string
		)
		if err := rows.Scan(&p.key.controlNumber, &p.key.partNumber, &st); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		p.status = status.Part(status.Normalize(st))
		parts = append(parts, p)
	}

	return parts, rows.Err()
}

func loadAssignments(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]assignmentRow, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	defer rows.Close()

	var assignments []assignmentRow
	for rows.Next() {
		var (
			a     assignmentRow
			parts []byte
			st    sql.NullString
		)
		if err := rows.Scan(&a.controlNumber, &parts, &st); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		if a.partNumbers, err = decodePartNumbers(parts); err != nil {
			return nil, err
		}
		a.status = status.FromDB(nullString(st))
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}
