// Package workorder registers work orders and their parts.
package workorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"modelshop/internal/audit"
	"modelshop/internal/lib/apperr"
	"modelshop/internal/storage"
)

const dateLayout = "2006-01-02"

var priorities = map[string]bool{"low": true, "medium": true, "high": true}

type Repository interface {
	CreateWorkOrder(ctx context.Context, wo storage.WorkOrder) (int64, error)
	SaveParts(ctx context.Context, controlNumber int64, parts []storage.NewPart, createdBy string) error
	PartNumbers(ctx context.Context, controlNumber int64) ([]string, error)
}

type Service struct {
	log   *slog.Logger
	repo  Repository
	audit *audit.Recorder
}

func New(log *slog.Logger, repo Repository, recorder *audit.Recorder) *Service {
	return &Service{log: log, repo: repo, audit: recorder}
}

// Form is the raw work order form as posted.
type Form struct {
	WorkOrderNumber       string
	ProjectCode           string
	Priority              string
	GroupWorkOrder        string
	WorkOrderDate         string
	ReceivedDate          string
	DesiredCompletionDate string
	ProductDescription    string
	DocumentPath          string
	CreatedBy             string
}

// Parse validates the form. It runs before the document is stored so a
// rejected form leaves no orphan upload.
func (f Form) Parse() (storage.WorkOrder, error) {
	required := []string{
		f.WorkOrderNumber, f.ProjectCode, f.Priority, f.GroupWorkOrder,
		f.WorkOrderDate, f.ReceivedDate, f.DesiredCompletionDate, f.ProductDescription,
	}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return storage.WorkOrder{}, apperr.Validation("Missing required fields")
		}
	}

	priority := strings.ToLower(strings.TrimSpace(f.Priority))
	if !priorities[priority] {
		return storage.WorkOrder{}, apperr.Validation("Priority must be low, medium or high")
	}

	var dates [3]time.Time
	for i, raw := range []string{f.WorkOrderDate, f.ReceivedDate, f.DesiredCompletionDate} {
		d, err := time.Parse(dateLayout, strings.TrimSpace(raw))
		if err != nil {
			return storage.WorkOrder{}, apperr.Validation(fmt.Sprintf("Invalid date: %s", raw))
		}
		dates[i] = d
	}

	wo := storage.WorkOrder{
		WorkOrderNumber:       strings.TrimSpace(f.WorkOrderNumber),
		ProjectCode:           strings.TrimSpace(f.ProjectCode),
		Priority:              priority,
		GroupSection:          strings.TrimSpace(f.GroupWorkOrder),
		WorkOrderDate:         dates[0],
		ReceivedDate:          dates[1],
		DesiredCompletionDate: dates[2],
		ProductDescription:    strings.TrimSpace(f.ProductDescription),
		CreatedBy:             f.CreatedBy,
	}
	if f.DocumentPath != "" {
		p := f.DocumentPath
		wo.DocUploadPath = &p
	}

	return wo, nil
}

// Create stores the work order and returns it with the issued control number.
func (s *Service) Create(ctx context.Context, form Form) (storage.WorkOrder, error) {
	const op = "service.workorder.Create"

	wo, err := form.Parse()
	if err != nil {
		return storage.WorkOrder{}, err
	}

	cn, err := s.repo.CreateWorkOrder(ctx, wo)
	if err != nil {
		return storage.WorkOrder{}, fmt.Errorf("%s: %w", op, err)
	}
	wo.ControlNumber = cn

	s.log.Info("work order created", slog.Int64("control_number", cn), slog.String("work_order", wo.WorkOrderNumber))
	s.audit.Record(ctx, audit.EventWorkOrderCreated,
		fmt.Sprintf("Work order %s (Control #%d) created successfully.", wo.WorkOrderNumber, cn))

	return wo, nil
}

// AddParts inserts the parts of a control number in one transaction.
func (s *Service) AddParts(ctx context.Context, controlNumber int64, parts []storage.NewPart, createdBy string) error {
	const op = "service.workorder.AddParts"

	if controlNumber <= 0 || len(parts) == 0 {
		return apperr.Validation("Invalid part data")
	}

	seen := make(map[string]bool, len(parts))
	clean := make([]storage.NewPart, 0, len(parts))
	for _, p := range parts {
		p.PartNumber = strings.TrimSpace(p.PartNumber)
		p.Description = strings.TrimSpace(p.Description)
		if p.PartNumber == "" || p.Description == "" || p.Quantity <= 0 {
			return apperr.Validation("Missing part fields")
		}
		if seen[p.PartNumber] {
			return apperr.Validation(fmt.Sprintf("Duplicate part number %s", p.PartNumber))
		}
		seen[p.PartNumber] = true
		clean = append(clean, p)
	}

	err := s.repo.SaveParts(ctx, controlNumber, clean, createdBy)
	switch {
	case errors.Is(err, storage.ErrInvalidReference):
		return apperr.Wrap(apperr.KindValidation, "Invalid Control Number", err)
	case errors.Is(err, storage.ErrDuplicate):
		return apperr.Wrap(apperr.KindConflict, "Part number already exists for this control number", err)
	case err != nil:
		return fmt.Errorf("%s: %w", op, err)
	}

	s.audit.Record(ctx, audit.EventPartsAdded, fmt.Sprintf("Parts added for Control #%d", controlNumber))

	return nil
}

func (s *Service) PartNumbers(ctx context.Context, controlNumber int64) ([]string, error) {
	const op = "service.workorder.PartNumbers"

	numbers, err := s.repo.PartNumbers(ctx, controlNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(numbers) == 0 {
		return nil, apperr.NotFound("No parts found")
	}

	return numbers, nil
}
