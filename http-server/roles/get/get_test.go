package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"modelshop/internal/storage"
)

type MockRolesMenus struct {
	mock.Mock
}

func (m *MockRolesMenus) Roles(ctx context.Context) ([]storage.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]storage.Role), args.Error(1)
}

func (m *MockRolesMenus) Menus(ctx context.Context) ([]storage.Menu, error) {
	args := m.Called(ctx)
	return args.Get(0).([]storage.Menu), args.Error(1)
}

func (m *MockRolesMenus) AssignedMenuIDs(ctx context.Context, roleID int64) ([]int64, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).([]int64), args.Error(1)
}

func router(rm RolesMenus) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/roles", GetRoles(slog.Default(), rm))
	r.Get("/api/menus", GetMenus(slog.Default(), rm))
	r.Get("/api/assigned-menus/{roleId}", GetAssignedMenus(slog.Default(), rm))
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestRolesAndMenus(t *testing.T) {
	rm := new(MockRolesMenus)
	rm.On("Roles", mock.Anything).Return([]storage.Role{{ID: 1, Name: "admin"}}, nil)
	rm.On("Menus", mock.Anything).Return([]storage.Menu{{ID: 3, Name: "Tasks"}}, nil)
	rm.On("AssignedMenuIDs", mock.Anything, int64(1)).Return([]int64{3, 4}, nil)
	h := router(rm)

	assert.JSONEq(t, `{"success":true,"roles":[{"role_id":1,"role_name":"admin"}]}`, get(h, "/api/roles").Body.String())
	assert.JSONEq(t, `{"success":true,"menus":[{"menu_id":3,"menu_name":"Tasks"}]}`, get(h, "/api/menus").Body.String())
	assert.JSONEq(t, `{"success":true,"menu_ids":[3,4]}`, get(h, "/api/assigned-menus/1").Body.String())
	assert.Equal(t, http.StatusBadRequest, get(h, "/api/assigned-menus/zero").Code)
}

func TestRoles_Error(t *testing.T) {
	rm := new(MockRolesMenus)
	rm.On("Roles", mock.Anything).Return([]storage.Role(nil), errors.New("db down"))

	rr := get(router(rm), "/api/roles")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Error fetching roles")
}
