package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modelshop/internal/storage"
)

func (s *Storage) Trades(ctx context.Context) ([]storage.Trade, error) {
	const op = "storage.mysql.Trades"

	rows, err := s.db.QueryContext(ctx, `SELECT trade_id, trade_name FROM trade_master ORDER BY trade_name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	trades := make([]storage.Trade, 0)
	for rows.Next() {
		var t storage.Trade
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		trades = append(trades, t)
	}

	return trades, rows.Err()
}

func (s *Storage) EmployeesByTrade(ctx context.Context, tradeID int64) ([]storage.Employee, error) {
	const op = "storage.mysql.EmployeesByTrade"

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.employee_id, e.employee_name
		FROM trade_employee te
		JOIN employee_master e ON te.employee_id = e.employee_id
		WHERE te.trade_id = ?
		ORDER BY e.employee_name`, tradeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	employees := make([]storage.Employee, 0)
	for rows.Next() {
		var e storage.Employee
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

func (s *Storage) EmployeeDetails(ctx context.Context, employeeID string) (storage.EmployeeDetails, error) {
	const op = "storage.mysql.EmployeeDetails"

	var (
		e                  storage.EmployeeDetails
		email, designation sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT employee_id, employee_name, email_id, designation
		FROM employee_master WHERE employee_id = ?`, employeeID,
	).Scan(&e.ID, &e.Name, &email, &designation)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.EmployeeDetails{}, fmt.Errorf("%s: employee %s: %w", op, employeeID, storage.ErrNotFound)
	}
	if err != nil {
		return storage.EmployeeDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	e.Email = nullString(email)
	e.Designation = nullString(designation)

	return e, nil
}
