package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"modelshop/internal/lib/api/request"
	resp "modelshop/internal/lib/api/response"
)

type ControlNumberFinisher interface {
	Finish(ctx context.Context, controlNumber int64) error
}

type finishRequest struct {
	ControlNumber request.Int64 `json:"control_number"`
}

// FinishControlNumber marks every part of a control number as finished.
func FinishControlNumber(log *slog.Logger, finisher ControlNumberFinisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.control-numbers.update.FinishControlNumber"

		var req finishRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil || req.ControlNumber <= 0 {
			resp.Fail(w, r, http.StatusBadRequest, "Control number is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := finisher.Finish(ctx, int64(req.ControlNumber)); err != nil {
			resp.FailErr(w, r, log, op, err, "Failed to update status")
			return
		}

		log.Info("control number finished", slog.Int64("control_number", int64(req.ControlNumber)))

		render.JSON(w, r, resp.OK("Status updated to finished"))
	}
}
