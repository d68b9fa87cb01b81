package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modelshop/internal/storage"
)

// CreateWorkOrder inserts a work order. The control number is issued by the
// AUTO_INCREMENT column and returned.
func (s *Storage) CreateWorkOrder(ctx context.Context, wo storage.WorkOrder) (int64, error) {
	const op = "storage.mysql.CreateWorkOrder"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO work_order_master (
			work_order_number, project_code, priority, group_section, work_order_date,
			received_date, desired_completion_date, product_description, doc_upload_path, created_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		wo.WorkOrderNumber, wo.ProjectCode, wo.Priority, wo.GroupSection, wo.WorkOrderDate,
		wo.ReceivedDate, wo.DesiredCompletionDate, wo.ProductDescription, wo.DocUploadPath, wo.CreatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, classify(err))
	}

	return res.LastInsertId()
}

func (s *Storage) GetWorkOrder(ctx context.Context, controlNumber int64) (storage.WorkOrder, error) {
	const op = "storage.mysql.GetWorkOrder"

	var (
		wo  storage.WorkOrder
		doc sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT control_number, work_order_number, project_code, priority, group_section,
		       work_order_date, received_date, desired_completion_date, product_description, doc_upload_path
		FROM work_order_master WHERE control_number = ?`, controlNumber,
	).Scan(&wo.ControlNumber, &wo.WorkOrderNumber, &wo.ProjectCode, &wo.Priority, &wo.GroupSection,
		&wo.WorkOrderDate, &wo.ReceivedDate, &wo.DesiredCompletionDate, &wo.ProductDescription, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.WorkOrder{}, fmt.Errorf("%s: control number %d: %w", op, controlNumber, storage.ErrNotFound)
	}
	if err != nil {
		return storage.WorkOrder{}, fmt.Errorf("%s: %w", op, err)
	}
	wo.DocUploadPath = nullString(doc)

	return wo, nil
}
