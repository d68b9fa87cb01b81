package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"modelshop/internal/lib/api/request"
	resp "modelshop/internal/lib/api/response"
	"modelshop/internal/service/tasks"
	"modelshop/internal/status"
	"modelshop/internal/storage"
)

type TaskStatusUpdater interface {
	Accept(ctx context.Context, req tasks.AcceptRequest) (storage.TransitionResult, error)
	UpdateJob(ctx context.Context, req tasks.JobRequest) (storage.TransitionResult, error)
}

type acceptRequest struct {
	ID         request.Int64 `json:"id"`
	Status     string        `json:"status"`
	EmployeeID string        `json:"employee_id"`
	AssignedBy string        `json:"assigned_by"`
}

type acceptResponse struct {
	resp.Response
	Status          string     `json:"status"`
	ActualStartDate *time.Time `json:"actual_start_date"`
}

// UpdateTaskStatus is the employee accepting a task.
func UpdateTaskStatus(log *slog.Logger, updater TaskStatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.task-status.UpdateTaskStatus"

		var req acceptRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Warn("invalid request body", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusBadRequest, "Missing id or status")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := updater.Accept(ctx, tasks.AcceptRequest{
			ID:         int64(req.ID),
			Status:     req.Status,
			EmployeeID: req.EmployeeID,
			AssignedBy: req.AssignedBy,
		})
		if err != nil {
			resp.FailErr(w, r, log, op, err, "Internal Server Error")
			return
		}

		render.JSON(w, r, acceptResponse{
			Response:        resp.OK("Task Accepted & Status Changed to ONGOING!"),
			Status:          res.To.String(),
			ActualStartDate: res.ActualStartDate,
		})
	}
}

type jobRequest struct {
	ID     request.Int64 `json:"id"`
	Status string        `json:"status"`
	Reason string        `json:"reason"`
	// UpdateHoldDate is sent by older clients; the hold date is always stamped.
	UpdateHoldDate bool `json:"update_hold_date"`
}

type jobResponse struct {
	resp.Response
	Status          string     `json:"status"`
	ActualStartDate *time.Time `json:"actual_start_date,omitempty"`
	ActualEndDate   *time.Time `json:"actual_end_date,omitempty"`
	OnHoldDate      *time.Time `json:"on_hold_date,omitempty"`
	HoldReason      *string    `json:"hold_reason,omitempty"`
	Reason          *string    `json:"reason,omitempty"`
}

// UpdateJobStatus moves a task to ongoing, on hold or completed.
func UpdateJobStatus(log *slog.Logger, updater TaskStatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.task-status.UpdateJobStatus"

		var req jobRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Warn("invalid request body", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusBadRequest, "Missing id or status")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := updater.UpdateJob(ctx, tasks.JobRequest{
			ID:     int64(req.ID),
			Status: req.Status,
			Reason: req.Reason,
		})
		if err != nil {
			resp.FailErr(w, r, log, op, err, "Internal Server Error")
			return
		}

		out := jobResponse{Status: res.To.String()}
		switch res.To {
		case status.OnHold:
			out.Response = resp.OK("Task put ON HOLD")
			out.OnHoldDate = res.OnHoldDate
			out.HoldReason = res.HoldReason
		case status.Completed:
			out.Response = resp.OK("Task marked as COMPLETED")
			out.Reason = res.Reason
			out.ActualEndDate = res.ActualEndDate
		default:
			out.Response = resp.OK("Task Accepted & Status Changed to ONGOING!")
			out.ActualStartDate = res.ActualStartDate
		}

		render.JSON(w, r, out)
	}
}
