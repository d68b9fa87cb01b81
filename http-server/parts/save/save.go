package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"modelshop/internal/lib/api/request"
	resp "modelshop/internal/lib/api/response"
	"modelshop/internal/middleware/auth"
	"modelshop/internal/storage"
)

type PartSaver interface {
	AddParts(ctx context.Context, controlNumber int64, parts []storage.NewPart, createdBy string) error
}

type partsRequest struct {
	ControlNumber request.Int64     `json:"controlNumber"`
	Parts         []storage.NewPart `json:"parts"`
}

func SaveParts(log *slog.Logger, saver PartSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.parts.save.SaveParts"

		var req partsRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Warn("invalid request body", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusBadRequest, "Invalid part data")
			return
		}

		var createdBy string
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
			createdBy = claims.EmployeeID
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := saver.AddParts(ctx, int64(req.ControlNumber), req.Parts, createdBy); err != nil {
			resp.FailErr(w, r, log, op, err, "Error saving parts")
			return
		}

		render.JSON(w, r, resp.OK("Parts saved"))
	}
}
