package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelshop/internal/lib/jwtauth"
	"modelshop/internal/session"
)

var secret = []byte("middleware-secret")

func protected(t *testing.T, bl session.Blacklist, required ...int64) (http.Handler, *bool) {
	t.Helper()
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		c, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "E001", c.EmployeeID)
		w.WriteHeader(http.StatusNoContent)
	})
	return RequirePermissions(slog.Default(), secret, bl, required...)(next), &called
}

func request(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/work-order", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRequirePermissions_Allows(t *testing.T) {
	token, _, err := jwtauth.NewToken("E001", "Anna", "admin", []int64{PermView, PermCreate}, secret, time.Minute)
	require.NoError(t, err)

	h, called := protected(t, nil, PermCreate)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, request(token))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, *called)
}

func TestRequirePermissions_Rejects(t *testing.T) {
	viewer, _, err := jwtauth.NewToken("E001", "Anna", "viewer", []int64{PermView}, secret, time.Minute)
	require.NoError(t, err)
	foreign, _, err := jwtauth.NewToken("E001", "Anna", "admin", []int64{PermCreate}, []byte("other"), time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		msg   string
	}{
		{name: "no token", token: "", msg: "No token provided"},
		{name: "bad signature", token: foreign, msg: "Invalid token"},
		{name: "missing permission", token: viewer, msg: "Insufficient permissions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, called := protected(t, nil, PermCreate)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, request(tt.token))

			assert.Equal(t, http.StatusForbidden, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.msg)
			assert.False(t, *called)
		})
	}
}

func TestRequirePermissions_Revoked(t *testing.T) {
	token, claims, err := jwtauth.NewToken("E001", "Anna", "admin", []int64{PermCreate}, secret, time.Minute)
	require.NoError(t, err)

	bl := session.NewMemory()
	require.NoError(t, bl.Revoke(context.Background(), claims.ID, time.Minute))

	h, called := protected(t, bl, PermCreate)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, request(token))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "Token revoked")
	assert.False(t, *called)
}
