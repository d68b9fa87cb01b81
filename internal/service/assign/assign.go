// Package assign creates task assignments from the bulk assignment form.
package assign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"modelshop/internal/audit"
	"modelshop/internal/events"
	"modelshop/internal/lib/apperr"
	"modelshop/internal/storage"
)

const dateLayout = "2006-01-02"

type Repository interface {
	AssignTask(ctx context.Context, a storage.NewAssignment) (storage.AssignmentOutcome, error)
}

// PartRefresher recomputes derived part statuses after new assignments.
type PartRefresher interface {
	AfterAssignment(ctx context.Context, controlNumber int64)
}

type EmployeeRef struct {
	Name string `json:"employee_name"`
}

// TaskInput is one element of the tasks array posted by the assignment form.
type TaskInput struct {
	ControlNumber int64         `json:"controlNumber"`
	Parts         []string      `json:"parts"`
	Employees     []EmployeeRef `json:"employees"`
	StartDate     string        `json:"startDate"`
	EndDate       string        `json:"endDate"`
}

type Request struct {
	Tasks         []TaskInput
	AssignedBy    string
	DocUploadPath string
}

// Result is the outcome of a single task element.
type Result struct {
	ControlNumber int64   `json:"controlNumber"`
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
	TaskIDs       []int64 `json:"taskIds,omitempty"`
}

// Summary lists every element outcome in request order.
type Summary struct {
	Results   []Result
	Succeeded int
}

func (s Summary) Failed() int { return len(s.Results) - s.Succeeded }

type Service struct {
	log    *slog.Logger
	repo   Repository
	parts  PartRefresher
	events events.Publisher
	audit  *audit.Recorder
}

func New(log *slog.Logger, repo Repository, parts PartRefresher, publisher events.Publisher, recorder *audit.Recorder) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{log: log, repo: repo, parts: parts, events: publisher, audit: recorder}
}

// Assign processes each task element in its own transaction. A failing element
// does not undo the ones before it; the summary tells the caller which failed.
// Only request-level problems are returned as an error.
func (s *Service) Assign(ctx context.Context, req Request) (Summary, error) {
	const op = "service.assign.Assign"

	if len(req.Tasks) == 0 {
		return Summary{}, apperr.Validation("No tasks provided")
	}
	assignedBy := strings.TrimSpace(req.AssignedBy)
	if assignedBy == "" {
		return Summary{}, apperr.Validation("Assigned by (logged-in employee) is required")
	}

	summary := Summary{Results: make([]Result, 0, len(req.Tasks))}
	for _, task := range req.Tasks {
		res, err := s.assignOne(ctx, task, assignedBy, req.DocUploadPath)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				s.log.Error("failed to assign task",
					slog.String("op", op),
					slog.Int64("control_number", task.ControlNumber),
					slog.String("error", err.Error()),
				)
			}
			summary.Results = append(summary.Results, Result{
				ControlNumber: task.ControlNumber,
				Message:       apperr.PublicMessage(err, "Internal server error"),
			})
			continue
		}
		summary.Results = append(summary.Results, res)
		summary.Succeeded++
	}

	s.audit.Record(ctx, audit.EventTasksAssigned,
		fmt.Sprintf("%d of %d task(s) assigned by %s, document %s", summary.Succeeded, len(req.Tasks), assignedBy, req.DocUploadPath))

	return summary, nil
}

func (s *Service) assignOne(ctx context.Context, task TaskInput, assignedBy, docPath string) (Result, error) {
	a, err := validate(task)
	if err != nil {
		return Result{}, err
	}
	a.AssignedBy = assignedBy
	a.DocUploadPath = docPath

	out, err := s.repo.AssignTask(ctx, a)
	if err != nil {
		var unresolved *storage.UnresolvedEmployeesError
		switch {
		case errors.As(err, &unresolved):
			msg := fmt.Sprintf("No valid employees found for control number %d", task.ControlNumber)
			if len(unresolved.Names) > 0 {
				msg += ": " + strings.Join(unresolved.Names, ", ")
			}
			return Result{}, apperr.Wrap(apperr.KindValidation, msg, err)
		case errors.Is(err, storage.ErrInvalidReference):
			return Result{}, apperr.Wrap(apperr.KindValidation, fmt.Sprintf("Unknown control number %d", task.ControlNumber), err)
		}
		return Result{}, err
	}

	s.log.Info("task assigned",
		slog.Int64("control_number", task.ControlNumber),
		slog.Int("employees", len(out.EmployeeIDs)),
	)

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if s.parts != nil {
		s.parts.AfterAssignment(bg, task.ControlNumber)
	}
	for i, id := range out.TaskIDs {
		event := events.TaskEvent{
			Type:          events.TypeAssigned,
			TaskID:        id,
			ControlNumber: task.ControlNumber,
			Status:        "pending",
		}
		if i < len(out.EmployeeIDs) {
			event.EmployeeID = out.EmployeeIDs[i]
		}
		if err := s.events.Publish(bg, event); err != nil {
			s.log.Warn("failed to publish task event", slog.Int64("task_id", id), slog.String("error", err.Error()))
		}
	}

	return Result{
		ControlNumber: task.ControlNumber,
		Success:       true,
		Message:       fmt.Sprintf("Assigned to %d employee(s)", len(out.EmployeeIDs)),
		TaskIDs:       out.TaskIDs,
	}, nil
}

func validate(task TaskInput) (storage.NewAssignment, error) {
	if task.ControlNumber <= 0 {
		return storage.NewAssignment{}, apperr.Validation("Invalid Control Number")
	}

	var parts []string
	for _, p := range task.Parts {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return storage.NewAssignment{}, apperr.Validation(fmt.Sprintf("No parts selected for control number %d", task.ControlNumber))
	}

	var names []string
	for _, e := range task.Employees {
		if n := strings.TrimSpace(e.Name); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return storage.NewAssignment{}, apperr.Validation(fmt.Sprintf("No employees selected for control number %d", task.ControlNumber))
	}

	start, err := parseDate(task.StartDate)
	if err != nil {
		return storage.NewAssignment{}, apperr.Validation("Invalid start date")
	}
	end, err := parseDate(task.EndDate)
	if err != nil {
		return storage.NewAssignment{}, apperr.Validation("Invalid end date")
	}
	if end.Before(start) {
		return storage.NewAssignment{}, apperr.Validation("End date must not be before start date")
	}

	return storage.NewAssignment{
		ControlNumber: task.ControlNumber,
		PartNumbers:   parts,
		EmployeeNames: names,
		StartDate:     start,
		EndDate:       end,
	}, nil
}

// parseDate accepts a plain date or the ISO timestamp browsers send for date inputs.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
