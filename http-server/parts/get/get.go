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
)

type PartNumbers interface {
	PartNumbers(ctx context.Context, controlNumber int64) ([]string, error)
}

// GetPartNumbers lists the part numbers registered under a control number.
func GetPartNumbers(log *slog.Logger, parts PartNumbers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.parts.get.GetPartNumbers"

		cn, err := request.ParseID(chi.URLParam(r, "controlNumber"))
		if err != nil {
			resp.Fail(w, r, http.StatusBadRequest, "Invalid Control Number")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		numbers, err := parts.PartNumbers(ctx, cn)
		if err != nil {
			resp.FailErr(w, r, log, op, err, "Internal server error")
			return
		}

		render.JSON(w, r, numbers)
	}
}
