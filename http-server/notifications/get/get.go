package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	resp "modelshop/internal/lib/api/response"
	"modelshop/internal/storage"
)

type Notifications interface {
	Notifications(ctx context.Context, employeeID string) ([]storage.Notification, error)
}

// GetNotifications returns the employee's notifications, newest first.
func GetNotifications(log *slog.Logger, n Notifications) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notifications.get.GetNotifications"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		notes, err := n.Notifications(ctx, chi.URLParam(r, "employeeId"))
		if err != nil {
			log.Error("failed to fetch notifications", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		render.JSON(w, r, notes)
	}
}
