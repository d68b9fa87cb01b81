package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"modelshop/internal/filestore"
	resp "modelshop/internal/lib/api/response"
	"modelshop/internal/middleware/auth"
	"modelshop/internal/service/assign"
)

type TaskAssigner interface {
	Assign(ctx context.Context, req assign.Request) (assign.Summary, error)
}

type assignResponse struct {
	resp.Response
	DocumentPath string          `json:"documentPath,omitempty"`
	Results      []assign.Result `json:"results"`
}

// AssignTasks handles the bulk assignment form: a document file, a JSON tasks
// array and the assigning employee. Every element is reported separately;
// 201 when all succeed, 207 when some do, 400 when none do.
func AssignTasks(log *slog.Logger, assigner TaskAssigner, files filestore.Store, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tasks.save.AssignTasks"

		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				resp.Fail(w, r, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
				return
			}
			resp.Fail(w, r, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer r.MultipartForm.RemoveAll()

		_, fh, err := r.FormFile("document")
		if err != nil {
			resp.Fail(w, r, http.StatusBadRequest, "No file uploaded")
			return
		}

		var tasks []assign.TaskInput
		raw := strings.TrimSpace(r.FormValue("tasks"))
		if raw == "" {
			raw = "[]"
		}
		if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
			log.Warn("invalid tasks payload", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusBadRequest, "Invalid tasks format")
			return
		}
		if len(tasks) == 0 {
			resp.Fail(w, r, http.StatusBadRequest, "No tasks provided")
			return
		}

		assignedBy := strings.TrimSpace(r.FormValue("assigned_by"))
		if assignedBy == "" {
			if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
				assignedBy = claims.EmployeeID
			}
		}
		if assignedBy == "" {
			resp.Fail(w, r, http.StatusBadRequest, "Assigned by (logged-in employee) is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		docPath, err := filestore.SaveUpload(ctx, files, fh)
		if err != nil {
			log.Error("failed to store document", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		log.Info("document stored", slog.String("path", docPath))

		summary, err := assigner.Assign(ctx, assign.Request{
			Tasks:         tasks,
			AssignedBy:    assignedBy,
			DocUploadPath: docPath,
		})
		if err != nil {
			resp.FailErr(w, r, log, op, err, "Internal server error")
			return
		}

		out := assignResponse{DocumentPath: docPath, Results: summary.Results}
		switch {
		case summary.Failed() == 0:
			out.Response = resp.OK("Tasks assigned successfully!")
			render.Status(r, http.StatusCreated)
		case summary.Succeeded > 0:
			out.Response = resp.Error("Some tasks could not be assigned")
			render.Status(r, http.StatusMultiStatus)
		default:
			out.Response = resp.Error("No tasks could be assigned")
			if len(summary.Results) == 1 {
				out.Response = resp.Error(summary.Results[0].Message)
			}
			render.Status(r, http.StatusBadRequest)
		}

		render.JSON(w, r, out)
	}
}
