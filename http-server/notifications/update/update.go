package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	resp "modelshop/internal/lib/api/response"
)

type NotificationMarker interface {
	MarkNotificationsRead(ctx context.Context, employeeID string) (int64, error)
}

func MarkAllRead(log *slog.Logger, marker NotificationMarker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notifications.update.MarkAllRead"

		empID := chi.URLParam(r, "empId")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		n, err := marker.MarkNotificationsRead(ctx, empID)
		if err != nil {
			log.Error("failed to mark notifications", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusInternalServerError, "Server error")
			return
		}

		log.Debug("notifications read", slog.String("employee_id", empID), slog.Int64("count", n))

		render.JSON(w, r, resp.OK("Notifications marked as read"))
	}
}
