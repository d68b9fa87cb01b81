package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modelshop/internal/storage"
)

func (s *Storage) AccountByEmployeeID(ctx context.Context, employeeID string) (storage.Account, error) {
	const op = "storage.mysql.AccountByEmployeeID"

	var (
		acc  storage.Account
		hash sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT em.employee_id, em.employee_name, em.role_id, rm.role_name, em.password
		FROM employee_master em
		JOIN role_master rm ON em.role_id = rm.role_id
		WHERE em.employee_id = ?`, employeeID,
	).Scan(&acc.EmployeeID, &acc.EmployeeName, &acc.RoleID, &acc.RoleName, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Account{}, fmt.Errorf("%s: employee %s: %w", op, employeeID, storage.ErrNotFound)
	}
	if err != nil {
		return storage.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	acc.PasswordHash = hash.String

	return acc, nil
}

func (s *Storage) PermissionIDs(ctx context.Context, roleID int64) ([]int64, error) {
	const op = "storage.mysql.PermissionIDs"

	rows, err := s.db.QueryContext(ctx, `SELECT permission_id FROM role_permissions WHERE role_id = ? ORDER BY permission_id`, roleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// PermissionNames returns the permission names of the employee's role.
func (s *Storage) PermissionNames(ctx context.Context, employeeID string) ([]string, error) {
	const op = "storage.mysql.PermissionNames"

	var roleID sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT role_id FROM employee_master WHERE employee_id = ?`, employeeID).Scan(&roleID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !roleID.Valid) {
		return nil, fmt.Errorf("%s: employee %s: %w", op, employeeID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.permission_name
		FROM permissions p
		JOIN role_permissions rp ON p.permission_id = rp.permission_id
		WHERE rp.role_id = ?
		ORDER BY p.permission_id`, roleID.Int64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		names = append(names, n)
	}

	return names, rows.Err()
}

func (s *Storage) MenusByRole(ctx context.Context, roleID int64) ([]storage.Menu, error) {
	const op = "storage.mysql.MenusByRole"

	menus, err := s.queryMenus(ctx, `
		SELECT m.menu_id, m.menu_name
		FROM role_menu rm
		JOIN menu_master m ON rm.menu_id = m.menu_id
		WHERE rm.role_id = ?
		ORDER BY m.menu_id`, roleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return menus, nil
}

func (s *Storage) Menus(ctx context.Context) ([]storage.Menu, error) {
	const op = "storage.mysql.Menus"

	menus, err := s.queryMenus(ctx, `SELECT menu_id, menu_name FROM menu_master ORDER BY menu_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return menus, nil
}

func (s *Storage) queryMenus(ctx context.Context, query string, args ...any) ([]storage.Menu, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	menus := make([]storage.Menu, 0)
	for rows.Next() {
		var m storage.Menu
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}
		menus = append(menus, m)
	}

	return menus, rows.Err()
}

func (s *Storage) Roles(ctx context.Context) ([]storage.Role, error) {
	const op = "storage.mysql.Roles"

	rows, err := s.db.QueryContext(ctx, `SELECT role_id, role_name FROM role_master ORDER BY role_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	roles := make([]storage.Role, 0)
	for rows.Next() {
		var r storage.Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		roles = append(roles, r)
	}

	return roles, rows.Err()
}

// AssignMenus replaces the menus of a role.
func (s *Storage) AssignMenus(ctx context.Context, roleID int64, menuIDs []int64) error {
	const op = "storage.mysql.AssignMenus"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM role_menu WHERE role_id = ?`, roleID); err != nil {
		return fmt.Errorf("%s: delete role %d menus: %w", op, roleID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO role_menu (role_id, menu_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare insert: %w", op, err)
	}
	defer stmt.Close()

	for _, menuID := range menuIDs {
		if _, err := stmt.ExecContext(ctx, roleID, menuID); err != nil {
			return fmt.Errorf("%s: insert menu %d: %w", op, menuID, classify(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

func (s *Storage) AssignedMenuIDs(ctx context.Context, roleID int64) ([]int64, error) {
	const op = "storage.mysql.AssignedMenuIDs"

	rows, err := s.db.QueryContext(ctx, `SELECT menu_id FROM role_menu WHERE role_id = ? ORDER BY menu_id`, roleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
