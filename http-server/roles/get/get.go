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

type RolesMenus interface {
	Roles(ctx context.Context) ([]storage.Role, error)
	Menus(ctx context.Context) ([]storage.Menu, error)
	AssignedMenuIDs(ctx context.Context, roleID int64) ([]int64, error)
}

type rolesResponse struct {
	Success bool           `json:"success"`
	Roles   []storage.Role `json:"roles"`
}

func GetRoles(log *slog.Logger, rm RolesMenus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.roles.get.GetRoles"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		roles, err := rm.Roles(ctx)
		if err != nil {
			log.Error("failed to fetch roles", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusInternalServerError, "Error fetching roles")
			return
		}

		render.JSON(w, r, rolesResponse{Success: true, Roles: roles})
	}
}

type menusResponse struct {
	Success bool           `json:"success"`
	Menus   []storage.Menu `json:"menus"`
}

func GetMenus(log *slog.Logger, rm RolesMenus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.roles.get.GetMenus"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		menus, err := rm.Menus(ctx)
		if err != nil {
			log.Error("failed to fetch menus", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusInternalServerError, "Error fetching menus")
			return
		}

		render.JSON(w, r, menusResponse{Success: true, Menus: menus})
	}
}

type assignedMenusResponse struct {
	Success bool    `json:"success"`
	MenuIDs []int64 `json:"menu_ids"`
}

func GetAssignedMenus(log *slog.Logger, rm RolesMenus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.roles.get.GetAssignedMenus"

		roleID, err := request.ParseID(chi.URLParam(r, "roleId"))
		if err != nil {
			resp.Fail(w, r, http.StatusBadRequest, "Invalid role id")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ids, err := rm.AssignedMenuIDs(ctx, roleID)
		if err != nil {
			log.Error("failed to fetch assigned menus", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusInternalServerError, "Error fetching menus")
			return
		}

		render.JSON(w, r, assignedMenusResponse{Success: true, MenuIDs: ids})
	}
}
