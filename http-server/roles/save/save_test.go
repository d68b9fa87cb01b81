package save

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"modelshop/internal/audit"
	"modelshop/internal/storage"
)

type MockMenuAssigner struct {
	mock.Mock
}

func (m *MockMenuAssigner) AssignMenus(ctx context.Context, roleID int64, menuIDs []int64) error {
	return m.Called(ctx, roleID, menuIDs).Error(0)
}

type MockEventRecorder struct {
	mock.Mock
}

func (m *MockEventRecorder) Record(ctx context.Context, event, description string) {
	m.Called(ctx, event, description)
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/assign-menus", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAssignMenus(t *testing.T) {
	assigner := new(MockMenuAssigner)
	assigner.On("AssignMenus", mock.Anything, int64(2), []int64{1, 3}).Return(nil)
	events := new(MockEventRecorder)
	events.On("Record", mock.Anything, audit.EventMenusAssigned, "Assigned 2 menus to role ID 2").Return()

	rr := post(AssignMenus(slog.Default(), assigner, events), `{"role_id":"2","menu_ids":[1,3,3]}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Menus assigned successfully")
	assigner.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestAssignMenus_Rejects(t *testing.T) {
	assigner := new(MockMenuAssigner)
	assigner.On("AssignMenus", mock.Anything, int64(2), []int64{99}).
		Return(fmt.Errorf("storage.mysql.AssignMenus: %w", storage.ErrInvalidReference))
	events := new(MockEventRecorder)
	h := AssignMenus(slog.Default(), assigner, events)

	for body, msg := range map[string]string{
		`{"role_id":2,"menu_ids":[]}`:   "Invalid data: role_id or menu_ids missing/invalid",
		`{"menu_ids":[1]}`:              "Invalid data: role_id or menu_ids missing/invalid",
		`{"role_id":2,"menu_ids":[0]}`:  "Invalid data: role_id or menu_ids missing/invalid",
		`{"role_id":2,"menu_ids":[99]}`: "Unknown role or menu",
	} {
		rr := post(h, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Contains(t, rr.Body.String(), msg, body)
	}
	events.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}
