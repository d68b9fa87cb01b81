package save

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"modelshop/internal/filestore"
	resp "modelshop/internal/lib/api/response"
	"modelshop/internal/middleware/auth"
	"modelshop/internal/service/workorder"
	"modelshop/internal/storage"
)

type WorkOrderCreator interface {
	Create(ctx context.Context, form workorder.Form) (storage.WorkOrder, error)
}

type createResponse struct {
	resp.Response
	ControlNumber int64   `json:"controlNumber"`
	DocumentPath  *string `json:"documentPath"`
}

// SaveWorkOrder accepts the work order form with an optional document.
func SaveWorkOrder(log *slog.Logger, creator WorkOrderCreator, files filestore.Store, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.work-order.save.SaveWorkOrder"

		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				resp.Fail(w, r, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
				return
			}
			resp.Fail(w, r, http.StatusBadRequest, "Invalid form data")
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		form := workorder.Form{
			WorkOrderNumber:       r.FormValue("workOrderNumber"),
			ProjectCode:           r.FormValue("projectCode"),
			Priority:              r.FormValue("priority"),
			GroupWorkOrder:        r.FormValue("groupWorkOrder"),
			WorkOrderDate:         r.FormValue("workOrderDate"),
			ReceivedDate:          r.FormValue("receivedDate"),
			DesiredCompletionDate: r.FormValue("desiredCompletionDate"),
			ProductDescription:    r.FormValue("productDescription"),
		}
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
			form.CreatedBy = claims.EmployeeID
		}

		if _, err := form.Parse(); err != nil {
			resp.FailErr(w, r, log, op, err, "Error saving work order")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		var fh *multipart.FileHeader
		if r.MultipartForm != nil {
			if fhs := r.MultipartForm.File["document"]; len(fhs) > 0 {
				fh = fhs[0]
			}
		}
		if fh != nil {
			path, err := filestore.SaveUpload(ctx, files, fh)
			if err != nil {
				log.Error("failed to store document", slog.String("op", op), slog.String("error", err.Error()))
				resp.Fail(w, r, http.StatusInternalServerError, "Error saving work order")
				return
			}
			form.DocumentPath = path
		}

		wo, err := creator.Create(ctx, form)
		if err != nil {
			resp.FailErr(w, r, log, op, err, "Error saving work order")
			return
		}

		render.JSON(w, r, createResponse{
			Response:      resp.OK("Work order saved"),
			ControlNumber: wo.ControlNumber,
			DocumentPath:  wo.DocUploadPath,
		})
	}
}
