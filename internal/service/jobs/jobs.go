// Package jobs assembles the read views of task assignments.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"modelshop/internal/lib/apperr"
	"modelshop/internal/status"
	"modelshop/internal/storage"
)

type Repository interface {
	GetTask(ctx context.Context, controlNumber, id int64) (storage.Task, error)
	GetWorkOrder(ctx context.Context, controlNumber int64) (storage.WorkOrder, error)
	PartDetails(ctx context.Context, controlNumber int64, partNumbers []string) ([]storage.PartDetail, error)
	EmployeeDetails(ctx context.Context, employeeID string) (storage.EmployeeDetails, error)
	TasksByStatus(ctx context.Context, filter storage.TaskFilter) ([]storage.Task, error)
	TasksByEmployee(ctx context.Context, employeeID string) ([]storage.Task, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ParseFilter maps the status path segment of the task list onto a filter.
// "All" and "finished" are not task statuses and are handled separately.
func ParseFilter(raw string) (storage.TaskFilter, error) {
	switch s := status.Normalize(raw); s {
	case "all":
		return storage.TaskFilter{All: true}, nil
	case string(status.PartFinished):
		return storage.TaskFilter{Finished: true}, nil
	case "":
		return storage.TaskFilter{}, apperr.Validation("Status is required")
	}

	t, err := status.ParseTask(raw)
	if err != nil {
		return storage.TaskFilter{}, apperr.Validation(fmt.Sprintf("Invalid status: %s", strings.TrimSpace(raw)))
	}
	return storage.TaskFilter{Status: t}, nil
}

func (s *Service) List(ctx context.Context, rawStatus string) ([]storage.Task, error) {
	const op = "service.jobs.List"

	filter, err := ParseFilter(rawStatus)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.TasksByStatus(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, nil
}

func (s *Service) AssignedTo(ctx context.Context, employeeID string) ([]storage.Task, error) {
	const op = "service.jobs.AssignedTo"

	if strings.TrimSpace(employeeID) == "" {
		return nil, apperr.Validation("Employee ID is required")
	}

	tasks, err := s.repo.TasksByEmployee(ctx, strings.TrimSpace(employeeID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, nil
}

// Details loads the assignment first, then its work order, parts and employee in parallel.
func (s *Service) Details(ctx context.Context, controlNumber, id int64) (storage.JobDetails, error) {
	const op = "service.jobs.Details"

	if controlNumber <= 0 || id <= 0 {
		return storage.JobDetails{}, apperr.Validation("Invalid parameters")
	}

	task, err := s.repo.GetTask(ctx, controlNumber, id)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.JobDetails{}, apperr.Wrap(apperr.KindNotFound, "No job details found", err)
	}
	if err != nil {
		return storage.JobDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	var (
		wo       storage.WorkOrder
		parts    []storage.PartDetail
		employee = "Unknown"
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		wo, err = s.repo.GetWorkOrder(gCtx, controlNumber)
		if err != nil {
			return fmt.Errorf("work order: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		parts, err = s.repo.PartDetails(gCtx, controlNumber, task.PartNumbers)
		if err != nil {
			return fmt.Errorf("part details: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		e, err := s.repo.EmployeeDetails(gCtx, task.EmployeeID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("employee: %w", err)
		}
		employee = e.Name
		return nil
	})

	if err := g.Wait(); err != nil {
		return storage.JobDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	return storage.JobDetails{
		ID:            task.ID,
		ControlNumber: task.ControlNumber,
		Status:        task.Status,
		PartNumbers:   task.PartNumbers,
		StartDate:     task.StartDate,
		EndDate:       task.EndDate,
		EmployeeNames: employee,
		PartDetails:   parts,
		GroupSection:  wo.GroupSection,
		Priority:      wo.Priority,
	}, nil
}
