package account

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	resp "modelshop/internal/lib/api/response"
	"modelshop/internal/middleware/auth"
	accountsvc "modelshop/internal/service/account"
)

type Authenticator interface {
	Login(ctx context.Context, employeeID, password string) (accountsvc.LoginResult, error)
	Logout(ctx context.Context, token, employeeID string) error
	CurrentPermissions(ctx context.Context, employeeID string) ([]string, error)
}

type loginRequest struct {
	EmployeeID string `json:"employeeId"`
	Password   string `json:"password"`
}

type loginResponse struct {
	resp.Response
	accountsvc.LoginResult
}

func Login(log *slog.Logger, authn Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.account.Login"

		var req loginRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			resp.Fail(w, r, http.StatusBadRequest, "Employee ID and password are required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := authn.Login(ctx, req.EmployeeID, req.Password)
		if err != nil {
			resp.FailErr(w, r, log, op, err, "Server error")
			return
		}

		render.JSON(w, r, loginResponse{Response: resp.OK("Login successful"), LoginResult: res})
	}
}

type logoutRequest struct {
	EmployeeID string `json:"employee_id"`
}

func Logout(log *slog.Logger, authn Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.account.Logout"

		var req logoutRequest
		if r.ContentLength != 0 {
			// the body is optional, a bad one is not worth failing a logout over
			_ = render.DecodeJSON(r.Body, &req)
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := authn.Logout(ctx, auth.BearerToken(r), strings.TrimSpace(req.EmployeeID)); err != nil {
			resp.FailErr(w, r, log, op, err, "Error logging out")
			return
		}

		render.JSON(w, r, resp.OK("Logged out successfully"))
	}
}

type permissionsResponse struct {
	Success     bool     `json:"success"`
	Permissions []string `json:"permissions"`
}

// CurrentUserPermissions must run behind the auth middleware.
func CurrentUserPermissions(log *slog.Logger, authn Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.account.CurrentUserPermissions"

		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok || claims.EmployeeID == "" {
			resp.Fail(w, r, http.StatusBadRequest, "Employee ID is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		names, err := authn.CurrentPermissions(ctx, claims.EmployeeID)
		if err != nil {
			resp.FailErr(w, r, log, op, err, "Server error")
			return
		}

		render.JSON(w, r, permissionsResponse{Success: true, Permissions: names})
	}
}
