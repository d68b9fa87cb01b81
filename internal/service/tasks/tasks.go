// Package tasks runs the task-status engine: guarded transitions of a single
// assignment followed by recomputation of the derived part statuses.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"modelshop/internal/audit"
	"modelshop/internal/events"
	"modelshop/internal/lib/apperr"
	"modelshop/internal/status"
	"modelshop/internal/storage"
)

type Repository interface {
	ApplyTaskTransition(ctx context.Context, id int64, scope storage.TaskScope, decide storage.TransitionFunc) (storage.TransitionResult, error)
	RecomputePartStatuses(ctx context.Context, controlNumber *int64) (int, error)
	FinishControlNumber(ctx context.Context, controlNumber int64) (int64, error)
}

type Service struct {
	log    *slog.Logger
	repo   Repository
	events events.Publisher
	audit  *audit.Recorder
}

func New(log *slog.Logger, repo Repository, publisher events.Publisher, recorder *audit.Recorder) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{log: log, repo: repo, events: publisher, audit: recorder}
}

// AcceptRequest is an employee accepting a task.
type AcceptRequest struct {
	ID         int64
	Status     string
	EmployeeID string
	AssignedBy string
}

// JobRequest is a supervisor or employee moving a task to ongoing, on hold or completed.
type JobRequest struct {
	ID     int64
	Status string
	Reason string
}

func (s *Service) Accept(ctx context.Context, req AcceptRequest) (storage.TransitionResult, error) {
	const op = "service.tasks.Accept"

	if req.ID <= 0 || status.Normalize(req.Status) == "" {
		return storage.TransitionResult{}, apperr.Validation("Missing id or status")
	}
	if t, err := status.ParseTask(req.Status); err != nil || t != status.Ongoing {
		return storage.TransitionResult{}, apperr.Validation("Invalid status update request")
	}

	scope := storage.TaskScope{EmployeeID: req.EmployeeID, AssignedBy: req.AssignedBy}
	res, err := s.transition(ctx, req.ID, scope, status.Accept, "")
	if err != nil {
		return storage.TransitionResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (s *Service) UpdateJob(ctx context.Context, req JobRequest) (storage.TransitionResult, error) {
	const op = "service.tasks.UpdateJob"

	if req.ID <= 0 || status.Normalize(req.Status) == "" {
		return storage.TransitionResult{}, apperr.Validation("Missing id or status")
	}
	action, err := status.JobAction(req.Status)
	if err != nil {
		return storage.TransitionResult{}, apperr.Validation("Invalid status")
	}

	res, err := s.transition(ctx, req.ID, storage.TaskScope{}, action, req.Reason)
	if err != nil {
		return storage.TransitionResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (s *Service) transition(ctx context.Context, id int64, scope storage.TaskScope, action status.Action, reason string) (storage.TransitionResult, error) {
	res, err := s.repo.ApplyTaskTransition(ctx, id, scope, func(current status.Task) (status.Change, error) {
		ch, guard := status.Plan(status.TransitionContext{Current: current, Action: action, Reason: reason})
		if !guard.Allowed {
			return status.Change{}, apperr.Conflict(guard.Reason)
		}
		return ch, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		return storage.TransitionResult{}, apperr.Wrap(apperr.KindNotFound, "Job not found", err)
	case errors.Is(err, storage.ErrConflict):
		return storage.TransitionResult{}, apperr.Wrap(apperr.KindConflict, "Task was changed by another request, reload and retry", err)
	case apperr.KindOf(err) != apperr.KindInternal:
		return storage.TransitionResult{}, err
	default:
		return storage.TransitionResult{}, apperr.Wrap(apperr.KindInternal, "transition failed", err)
	}

	s.log.Info("task status changed",
		slog.Int64("task_id", res.ID),
		slog.Int64("control_number", res.ControlNumber),
		slog.String("from", res.From.String()),
		slog.String("to", res.To.String()),
	)

	// the status write is committed; what follows must not undo it
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	s.recompute(bg, res.ControlNumber)

	event := events.TaskEvent{
		Type:          events.TypeStatusChange,
		TaskID:        res.ID,
		ControlNumber: res.ControlNumber,
		EmployeeID:    res.EmployeeID,
		From:          res.From.String(),
		Status:        res.To.String(),
		Reason:        reason,
	}
	if err := s.events.Publish(bg, event); err != nil {
		s.log.Warn("failed to publish task event", slog.Int64("task_id", res.ID), slog.String("error", err.Error()))
	}

	s.audit.Record(bg, audit.EventTaskStatusChanged,
		fmt.Sprintf("Task %d (Control #%d) changed from %s to %s", res.ID, res.ControlNumber, res.From, res.To))

	return res, nil
}

// recompute refreshes the derived part statuses of one control number; failures are only logged.
func (s *Service) recompute(ctx context.Context, controlNumber int64) {
	changed, err := s.repo.RecomputePartStatuses(ctx, &controlNumber)
	if err != nil {
		s.log.Error("failed to recompute part statuses",
			slog.String("op", "service.tasks.recompute"),
			slog.Int64("control_number", controlNumber),
			slog.String("error", err.Error()),
		)
		return
	}
	if changed > 0 {
		s.log.Debug("part statuses updated", slog.Int64("control_number", controlNumber), slog.Int("changed", changed))
	}
}

// RecomputeParts runs the recomputation for one control number, or all when nil.
func (s *Service) RecomputeParts(ctx context.Context, controlNumber *int64) (int, error) {
	const op = "service.tasks.RecomputeParts"

	changed, err := s.repo.RecomputePartStatuses(ctx, controlNumber)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return changed, nil
}

// AfterAssignment refreshes parts touched by a newly created assignment.
func (s *Service) AfterAssignment(ctx context.Context, controlNumber int64) {
	s.recompute(ctx, controlNumber)
}

// Finish archives a control number by marking all its parts finished.
func (s *Service) Finish(ctx context.Context, controlNumber int64) error {
	const op = "service.tasks.Finish"

	if controlNumber <= 0 {
		return apperr.Validation("Control number is required")
	}

	n, err := s.repo.FinishControlNumber(ctx, controlNumber)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return apperr.NotFound("Control number not found or already finished")
	}

	s.audit.Record(ctx, audit.EventControlFinished, fmt.Sprintf("Control number %d marked as finished", controlNumber))

	if err := s.events.Publish(ctx, events.TaskEvent{
		Type:          events.TypeFinished,
		ControlNumber: controlNumber,
		Status:        string(status.PartFinished),
	}); err != nil {
		s.log.Warn("failed to publish finish event", slog.Int64("control_number", controlNumber), slog.String("error", err.Error()))
	}

	return nil
}
