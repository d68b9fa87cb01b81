package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"modelshop/internal/lib/api/request"
	resp "modelshop/internal/lib/api/response"
	"modelshop/internal/storage"
)

type TaskLister interface {
	List(ctx context.Context, rawStatus string) ([]storage.Task, error)
	AssignedTo(ctx context.Context, employeeID string) ([]storage.Task, error)
}

type JobDetailsProvider interface {
	Details(ctx context.Context, controlNumber, id int64) (storage.JobDetails, error)
}

// TasksByStatus lists assignments for All, a task status or finished, highest priority first.
func TasksByStatus(log *slog.Logger, lister TaskLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tasks.get.TasksByStatus"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tasks, err := lister.List(ctx, chi.URLParam(r, "status"))
		if err != nil {
			resp.FailErr(w, r, log, op, err, "Internal Server Error")
			return
		}

		render.JSON(w, r, tasks)
	}
}

type assignedJobsResponse struct {
	Success bool           `json:"success"`
	Job     []storage.Task `json:"job"`
}

func AssignedJobs(log *slog.Logger, lister TaskLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tasks.get.AssignedJobs"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		jobs, err := lister.AssignedTo(ctx, chi.URLParam(r, "empId"))
		if err != nil {
			resp.FailErr(w, r, log, op, err, "Server error")
			return
		}

		render.JSON(w, r, assignedJobsResponse{Success: len(jobs) > 0, Job: jobs})
	}
}

type jobDetailsResponse struct {
	Success    bool               `json:"success"`
	JobDetails storage.JobDetails `json:"job_details"`
}

func JobDetails(log *slog.Logger, provider JobDetailsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tasks.get.JobDetails"

		controlNumber, err := request.ParseID(chi.URLParam(r, "controlNumber"))
		if err != nil {
			resp.Fail(w, r, http.StatusBadRequest, "Invalid parameters")
			return
		}
		id, err := request.ParseID(chi.URLParam(r, "id"))
		if err != nil {
			resp.Fail(w, r, http.StatusBadRequest, "Invalid parameters")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		details, err := provider.Details(ctx, controlNumber, id)
		if err != nil {
			resp.FailErr(w, r, log, op, err, "Server error")
			return
		}

		render.JSON(w, r, jobDetailsResponse{Success: true, JobDetails: details})
	}
}
