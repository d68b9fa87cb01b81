package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"modelshop/internal/lib/api/response"
	"modelshop/internal/lib/jwtauth"
	"modelshop/internal/session"
)

// Permission ids as stored in the permissions table.
const (
	PermView   int64 = 1
	PermCreate int64 = 2
	PermUpdate int64 = 3
	PermDelete int64 = 4
)

type ctxKey struct{}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*jwtauth.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*jwtauth.Claims)
	return c, ok
}

func WithClaims(ctx context.Context, c *jwtauth.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequirePermissions rejects requests without a valid, unrevoked token that
// carries every permission id in required.
func RequirePermissions(log *slog.Logger, secret []byte, blacklist session.Blacklist, required ...int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.auth.RequirePermissions"

			raw := BearerToken(r)
			if raw == "" {
				response.Fail(w, r, http.StatusForbidden, "Access denied: No token provided")
				return
			}

			claims, err := jwtauth.ParseToken(raw, secret)
			if err != nil {
				log.Warn("token rejected", slog.String("op", op), slog.String("error", err.Error()))
				response.Fail(w, r, http.StatusForbidden, "Access denied: Invalid token")
				return
			}

			if blacklist != nil {
				revoked, err := blacklist.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					// blacklist outage does not lock everybody out
					log.Warn("blacklist check failed", slog.String("op", op), slog.String("error", err.Error()))
				}
				if revoked {
					response.Fail(w, r, http.StatusForbidden, "Access denied: Token revoked")
					return
				}
			}

			if !claims.HasPermissions(required...) {
				log.Info("permission denied",
					slog.String("op", op),
					slog.String("employee_id", claims.EmployeeID),
					slog.Any("required", required),
				)
				response.Fail(w, r, http.StatusForbidden, "Access denied: Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
