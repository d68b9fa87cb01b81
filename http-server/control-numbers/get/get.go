package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	resp "modelshop/internal/lib/api/response"
)

type ControlNumbers interface {
	ActiveControlNumbers(ctx context.Context) ([]int64, error)
}

// ActiveControlNumbers lists control numbers that still have a part not finished.
func ActiveControlNumbers(log *slog.Logger, cn ControlNumbers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.control-numbers.get.ActiveControlNumbers"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		numbers, err := cn.ActiveControlNumbers(ctx)
		if err != nil {
			log.Error("failed to fetch control numbers", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusInternalServerError, "Failed to fetch control numbers")
			return
		}

		render.JSON(w, r, numbers)
	}
}
