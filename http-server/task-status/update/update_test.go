package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"modelshop/internal/lib/apperr"
	"modelshop/internal/service/tasks"
	"modelshop/internal/status"
	"modelshop/internal/storage"
)

type MockTaskStatusUpdater struct {
	mock.Mock
}

func (m *MockTaskStatusUpdater) Accept(ctx context.Context, req tasks.AcceptRequest) (storage.TransitionResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(storage.TransitionResult), args.Error(1)
}

func (m *MockTaskStatusUpdater) UpdateJob(ctx context.Context, req tasks.JobRequest) (storage.TransitionResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(storage.TransitionResult), args.Error(1)
}

func post(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &out))
	return out
}

func TestUpdateTaskStatus_Success(t *testing.T) {
	started := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	updater := new(MockTaskStatusUpdater)
	updater.On("Accept", mock.Anything, tasks.AcceptRequest{ID: 5, Status: "ongoing", EmployeeID: "E1"}).
		Return(storage.TransitionResult{ID: 5, To: status.Ongoing, ActualStartDate: &started}, nil)

	rr := post(UpdateTaskStatus(slog.Default(), updater), "/update-task-status", `{"id":"5","status":"ongoing","employee_id":"E1"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ongoing", body["status"])
	assert.Equal(t, "2024-05-01T09:00:00Z", body["actual_start_date"])
	updater.AssertExpectations(t)
}

func TestUpdateTaskStatus_AlreadyOngoing(t *testing.T) {
	updater := new(MockTaskStatusUpdater)
	updater.On("Accept", mock.Anything, mock.Anything).
		Return(storage.TransitionResult{}, apperr.Conflict("Task is already ongoing!"))

	rr := post(UpdateTaskStatus(slog.Default(), updater), "/update-task-status", `{"id":5,"status":"ongoing"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Task is already ongoing!", body["message"])
}

func TestUpdateTaskStatus_InvalidJSON(t *testing.T) {
	updater := new(MockTaskStatusUpdater)

	rr := post(UpdateTaskStatus(slog.Default(), updater), "/update-task-status", `{`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	updater.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything)
}

func TestUpdateJobStatus(t *testing.T) {
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	hold := "High Priority"
	done := status.DefaultCompletionReason

	tests := []struct {
		name    string
		body    string
		req     tasks.JobRequest
		res     storage.TransitionResult
		err     error
		code    int
		message string
		check   func(t *testing.T, body map[string]any)
	}{
		{
			name: "hold",
			body: `{"id":1,"status":"on hold","reason":"High Priority","update_hold_date":true}`,
			req:  tasks.JobRequest{ID: 1, Status: "on hold", Reason: "High Priority"},
			res:  storage.TransitionResult{ID: 1, To: status.OnHold, OnHoldDate: &now, HoldReason: &hold},
			code: http.StatusOK, message: "Task put ON HOLD",
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "on hold", body["status"])
				assert.Equal(t, "High Priority", body["hold_reason"])
				assert.NotContains(t, body, "actual_end_date")
			},
		},
		{
			name: "completed",
			body: `{"id":1,"status":"completed"}`,
			req:  tasks.JobRequest{ID: 1, Status: "completed"},
			res:  storage.TransitionResult{ID: 1, To: status.Completed, ActualEndDate: &now, Reason: &done},
			code: http.StatusOK, message: "Task marked as COMPLETED",
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, done, body["reason"])
				assert.Equal(t, "2024-05-02T10:00:00Z", body["actual_end_date"])
			},
		},
		{
			name: "rejected",
			body: `{"id":1,"status":"completed"}`,
			req:  tasks.JobRequest{ID: 1, Status: "completed"},
			err:  apperr.Conflict("Cannot complete task. Only ONGOING tasks can be completed. Current status: ON HOLD, requested: COMPLETED"),
			code: http.StatusBadRequest, message: "Cannot complete task. Only ONGOING tasks can be completed. Current status: ON HOLD, requested: COMPLETED",
		},
		{
			name: "not found",
			body: `{"id":9,"status":"ongoing"}`,
			req:  tasks.JobRequest{ID: 9, Status: "ongoing"},
			err:  apperr.NotFound("Job not found"),
			code: http.StatusNotFound, message: "Job not found",
		},
		{
			name: "database failure",
			body: `{"id":1,"status":"ongoing"}`,
			req:  tasks.JobRequest{ID: 1, Status: "ongoing"},
			err:  errors.New("driver: bad connection"),
			code: http.StatusInternalServerError, message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updater := new(MockTaskStatusUpdater)
			updater.On("UpdateJob", mock.Anything, tt.req).Return(tt.res, tt.err)

			rr := post(UpdateJobStatus(slog.Default(), updater), "/update-job-status", tt.body)

			assert.Equal(t, tt.code, rr.Code)
			body := decode(t, rr)
			assert.Equal(t, tt.message, body["message"])
			if tt.check != nil {
				tt.check(t, body)
			}
			updater.AssertExpectations(t)
		})
	}
}
