package account

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"modelshop/internal/lib/apperr"
	"modelshop/internal/lib/jwtauth"
	"modelshop/internal/middleware/auth"
	accountsvc "modelshop/internal/service/account"
	"modelshop/internal/storage"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, employeeID, password string) (accountsvc.LoginResult, error) {
	args := m.Called(ctx, employeeID, password)
	return args.Get(0).(accountsvc.LoginResult), args.Error(1)
}

func (m *MockAuthenticator) Logout(ctx context.Context, token, employeeID string) error {
	return m.Called(ctx, token, employeeID).Error(0)
}

func (m *MockAuthenticator) CurrentPermissions(ctx context.Context, employeeID string) ([]string, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestLogin(t *testing.T) {
	authn := new(MockAuthenticator)
	authn.On("Login", mock.Anything, "E001", "pw").Return(accountsvc.LoginResult{
		Token: "tkn", EmployeeID: "E001", EmployeeName: "Anna", Role: "admin",
		Permissions: []int64{1, 2}, Menus: []storage.Menu{{ID: 1, Name: "Dashboard"}},
	}, nil)
	authn.On("Login", mock.Anything, "E001", "bad").Return(accountsvc.LoginResult{}, apperr.New(apperr.KindUnauthorized, "Invalid credentials"))
	authn.On("Login", mock.Anything, "E002", "pw").Return(accountsvc.LoginResult{}, apperr.New(apperr.KindForbidden, "No menus assigned for this role"))

	cases := []struct {
		body string
		code int
		want []string
	}{
		{body: `{"employeeId":"E001","password":"pw"}`, code: http.StatusOK, want: []string{`"token":"tkn"`, `"success":true`, `"menu_name":"Dashboard"`}},
		{body: `{"employeeId":"E001","password":"bad"}`, code: http.StatusUnauthorized, want: []string{"Invalid credentials"}},
		{body: `{"employeeId":"E002","password":"pw"}`, code: http.StatusForbidden, want: []string{"No menus assigned for this role"}},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(c.body))
		rr := httptest.NewRecorder()
		Login(slog.Default(), authn).ServeHTTP(rr, req)

		assert.Equal(t, c.code, rr.Code, c.body)
		for _, w := range c.want {
			assert.Contains(t, rr.Body.String(), w)
		}
	}
}

func TestLogout(t *testing.T) {
	authn := new(MockAuthenticator)
	authn.On("Logout", mock.Anything, "abc.def.ghi", "E001").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(`{"employee_id":"E001"}`))
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	rr := httptest.NewRecorder()
	Logout(slog.Default(), authn).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Logged out successfully")
	authn.AssertExpectations(t)
}

func TestCurrentUserPermissions(t *testing.T) {
	authn := new(MockAuthenticator)
	authn.On("CurrentPermissions", mock.Anything, "E001").Return([]string{"view", "create"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/permissions/current_user", nil)
	req = req.WithContext(auth.WithClaims(req.Context(), &jwtauth.Claims{EmployeeID: "E001"}))
	rr := httptest.NewRecorder()
	CurrentUserPermissions(slog.Default(), authn).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"permissions":["view","create"]}`, rr.Body.String())

	rr = httptest.NewRecorder()
	CurrentUserPermissions(slog.Default(), authn).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/permissions/current_user", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
