package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"modelshop/internal/lib/apperr"
	"modelshop/internal/status"
	"modelshop/internal/storage"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetTask(ctx context.Context, controlNumber, id int64) (storage.Task, error) {
	args := m.Called(ctx, controlNumber, id)
	return args.Get(0).(storage.Task), args.Error(1)
}

func (m *MockRepository) GetWorkOrder(ctx context.Context, controlNumber int64) (storage.WorkOrder, error) {
	args := m.Called(ctx, controlNumber)
	return args.Get(0).(storage.WorkOrder), args.Error(1)
}

func (m *MockRepository) PartDetails(ctx context.Context, controlNumber int64, partNumbers []string) ([]storage.PartDetail, error) {
	args := m.Called(ctx, controlNumber, partNumbers)
	return args.Get(0).([]storage.PartDetail), args.Error(1)
}

func (m *MockRepository) EmployeeDetails(ctx context.Context, employeeID string) (storage.EmployeeDetails, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(storage.EmployeeDetails), args.Error(1)
}

func (m *MockRepository) TasksByStatus(ctx context.Context, filter storage.TaskFilter) ([]storage.Task, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]storage.Task), args.Error(1)
}

func (m *MockRepository) TasksByEmployee(ctx context.Context, employeeID string) ([]storage.Task, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).([]storage.Task), args.Error(1)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		raw  string
		want storage.TaskFilter
		err  bool
	}{
		{raw: "All", want: storage.TaskFilter{All: true}},
		{raw: "finished", want: storage.TaskFilter{Finished: true}},
		{raw: "pending", want: storage.TaskFilter{Status: status.Pending}},
		{raw: "On Hold", want: storage.TaskFilter{Status: status.OnHold}},
		{raw: " completed ", want: storage.TaskFilter{Status: status.Completed}},
		{raw: "approved", err: true},
		{raw: "", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseFilter(tt.raw)
			if tt.err {
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetails(t *testing.T) {
	repo := new(MockRepository)
	st := "ongoing"
	repo.On("GetTask", mock.Anything, int64(100), int64(7)).
		Return(storage.Task{ID: 7, ControlNumber: 100, PartNumbers: []string{"P1"}, EmployeeID: "E1", Status: &st}, nil)
	repo.On("GetWorkOrder", mock.Anything, int64(100)).
		Return(storage.WorkOrder{Priority: "high", GroupSection: "Machining"}, nil)
	repo.On("PartDetails", mock.Anything, int64(100), []string{"P1"}).
		Return([]storage.PartDetail{{PartNumber: "P1", Quantity: 4, Description: "Bracket"}}, nil)
	repo.On("EmployeeDetails", mock.Anything, "E1").Return(storage.EmployeeDetails{Name: "Anna"}, nil)

	d, err := New(repo).Details(context.Background(), 100, 7)
	require.NoError(t, err)
	assert.Equal(t, "Anna", d.EmployeeNames)
	assert.Equal(t, "high", d.Priority)
	assert.Equal(t, "Machining", d.GroupSection)
	assert.Len(t, d.PartDetails, 1)
	repo.AssertExpectations(t)
}

func TestDetails_UnknownEmployeeAndMissingTask(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetTask", mock.Anything, int64(100), int64(7)).
		Return(storage.Task{ID: 7, ControlNumber: 100, EmployeeID: "E9"}, nil)
	repo.On("GetTask", mock.Anything, int64(100), int64(8)).
		Return(storage.Task{}, storage.ErrNotFound)
	repo.On("GetWorkOrder", mock.Anything, int64(100)).Return(storage.WorkOrder{}, nil)
	repo.On("PartDetails", mock.Anything, int64(100), mock.Anything).Return([]storage.PartDetail{}, nil)
	repo.On("EmployeeDetails", mock.Anything, "E9").Return(storage.EmployeeDetails{}, storage.ErrNotFound)
	svc := New(repo)

	d, err := svc.Details(context.Background(), 100, 7)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", d.EmployeeNames)

	_, err = svc.Details(context.Background(), 100, 8)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Details(context.Background(), 0, 8)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDetails_ParallelFailure(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetTask", mock.Anything, int64(1), int64(1)).Return(storage.Task{ID: 1, ControlNumber: 1, EmployeeID: "E1"}, nil)
	repo.On("GetWorkOrder", mock.Anything, int64(1)).Return(storage.WorkOrder{}, errors.New("connection reset"))
	repo.On("PartDetails", mock.Anything, int64(1), mock.Anything).Return([]storage.PartDetail{}, nil).Maybe()
	repo.On("EmployeeDetails", mock.Anything, "E1").Return(storage.EmployeeDetails{}, nil).Maybe()

	_, err := New(repo).Details(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
