package mysql

import (
	"context"
	"fmt"

	"modelshop/internal/storage"
)

func (s *Storage) Notifications(ctx context.Context, employeeID string) ([]storage.Notification, error) {
	const op = "storage.mysql.Notifications"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, is_read, created_at
		FROM notifications
		WHERE employee_id = ?
		ORDER BY created_at DESC, id DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	notes := make([]storage.Notification, 0)
	for rows.Next() {
		var n storage.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

func (s *Storage) MarkNotificationsRead(ctx context.Context, employeeID string) (int64, error) {
	const op = "storage.mysql.MarkNotificationsRead"

	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE employee_id = ? AND is_read = FALSE`, employeeID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.RowsAffected()
}

// LogEvent appends a row to the audit log.
func (s *Storage) LogEvent(ctx context.Context, event, description string) error {
	const op = "storage.mysql.LogEvent"

	if _, err := s.db.ExecContext(ctx, `INSERT INTO logs (event, description) VALUES (?, ?)`, event, description); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
