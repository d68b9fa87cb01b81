package save

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"modelshop/internal/audit"
	"modelshop/internal/lib/api/request"
	resp "modelshop/internal/lib/api/response"
	"modelshop/internal/storage"
)

type MenuAssigner interface {
	AssignMenus(ctx context.Context, roleID int64, menuIDs []int64) error
}

type EventRecorder interface {
	Record(ctx context.Context, event, description string)
}

type assignMenusRequest struct {
	RoleID  request.Int64   `json:"role_id"`
	MenuIDs []request.Int64 `json:"menu_ids"`
}

// AssignMenus replaces the menus of a role in one transaction.
func AssignMenus(log *slog.Logger, assigner MenuAssigner, events EventRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.roles.save.AssignMenus"

		var req assignMenusRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil || req.RoleID <= 0 || len(req.MenuIDs) == 0 {
			resp.Fail(w, r, http.StatusBadRequest, "Invalid data: role_id or menu_ids missing/invalid")
			return
		}

		menuIDs := make([]int64, 0, len(req.MenuIDs))
		seen := make(map[int64]bool, len(req.MenuIDs))
		for _, id := range req.MenuIDs {
			if id <= 0 {
				resp.Fail(w, r, http.StatusBadRequest, "Invalid data: role_id or menu_ids missing/invalid")
				return
			}
			if !seen[int64(id)] {
				seen[int64(id)] = true
				menuIDs = append(menuIDs, int64(id))
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := assigner.AssignMenus(ctx, int64(req.RoleID), menuIDs)
		if errors.Is(err, storage.ErrInvalidReference) {
			resp.Fail(w, r, http.StatusBadRequest, "Unknown role or menu")
			return
		}
		if err != nil {
			log.Error("failed to assign menus", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}

		events.Record(ctx, audit.EventMenusAssigned, fmt.Sprintf("Assigned %d menus to role ID %d", len(menuIDs), req.RoleID))

		render.JSON(w, r, resp.OK("Menus assigned successfully"))
	}
}
