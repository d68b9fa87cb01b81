package workorder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"modelshop/internal/lib/apperr"
	"modelshop/internal/storage"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateWorkOrder(ctx context.Context, wo storage.WorkOrder) (int64, error) {
	args := m.Called(ctx, wo)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) SaveParts(ctx context.Context, controlNumber int64, parts []storage.NewPart, createdBy string) error {
	return m.Called(ctx, controlNumber, parts, createdBy).Error(0)
}

func (m *MockRepository) PartNumbers(ctx context.Context, controlNumber int64) ([]string, error) {
	args := m.Called(ctx, controlNumber)
	return args.Get(0).([]string), args.Error(1)
}

func newService(repo Repository) *Service {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, nil)
}

func validForm() Form {
	return Form{
		WorkOrderNumber:       "WO-17",
		ProjectCode:           "PRJ-1",
		Priority:              "High",
		GroupWorkOrder:        "Machining",
		WorkOrderDate:         "2024-05-01",
		ReceivedDate:          "2024-05-02",
		DesiredCompletionDate: "2024-06-01",
		ProductDescription:    "Wing rib model",
		DocumentPath:          "/uploads/a.pdf",
		CreatedBy:             "E001",
	}
}

func TestCreate(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CreateWorkOrder", mock.Anything, mock.MatchedBy(func(wo storage.WorkOrder) bool {
		return wo.Priority == "high" &&
			wo.GroupSection == "Machining" &&
			wo.DesiredCompletionDate.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) &&
			*wo.DocUploadPath == "/uploads/a.pdf"
	})).Return(int64(1001), nil)

	wo, err := newService(repo).Create(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(1001), wo.ControlNumber)
	repo.AssertExpectations(t)
}

func TestFormParse_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Form)
		msg    string
	}{
		{name: "missing project", mutate: func(f *Form) { f.ProjectCode = " " }, msg: "Missing required fields"},
		{name: "bad priority", mutate: func(f *Form) { f.Priority = "urgent" }, msg: "Priority must be low, medium or high"},
		{name: "bad date", mutate: func(f *Form) { f.ReceivedDate = "02.05.2024" }, msg: "Invalid date: 02.05.2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			_, err := f.Parse()
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.msg, apperr.PublicMessage(err, ""))
		})
	}
}

func TestAddParts(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SaveParts", mock.Anything, int64(100), []storage.NewPart{{PartNumber: "P1", Description: "Rib", Quantity: 2}}, "E001").Return(nil)
	repo.On("SaveParts", mock.Anything, int64(404), mock.Anything, mock.Anything).
		Return(fmt.Errorf("storage.mysql.SaveParts: %w", storage.ErrInvalidReference))
	svc := newService(repo)
	ctx := context.Background()

	require.NoError(t, svc.AddParts(ctx, 100, []storage.NewPart{{PartNumber: " P1 ", Description: "Rib", Quantity: 2}}, "E001"))

	err := svc.AddParts(ctx, 404, []storage.NewPart{{PartNumber: "P1", Description: "Rib", Quantity: 2}}, "E001")
	assert.Equal(t, "Invalid Control Number", apperr.PublicMessage(err, ""))

	err = svc.AddParts(ctx, 100, []storage.NewPart{{PartNumber: "P1", Quantity: 2}}, "E001")
	assert.Equal(t, "Missing part fields", apperr.PublicMessage(err, ""))

	err = svc.AddParts(ctx, 100, []storage.NewPart{
		{PartNumber: "P1", Description: "a", Quantity: 1},
		{PartNumber: "P1", Description: "b", Quantity: 1},
	}, "E001")
	assert.Equal(t, "Duplicate part number P1", apperr.PublicMessage(err, ""))

	err = svc.AddParts(ctx, 100, nil, "E001")
	assert.Equal(t, "Invalid part data", apperr.PublicMessage(err, ""))

	repo.AssertNumberOfCalls(t, "SaveParts", 2)
}

func TestPartNumbers(t *testing.T) {
	repo := new(MockRepository)
	repo.On("PartNumbers", mock.Anything, int64(100)).Return([]string{"P1", "P2"}, nil)
	repo.On("PartNumbers", mock.Anything, int64(101)).Return([]string{}, nil)
	svc := newService(repo)

	numbers, err := svc.PartNumbers(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2"}, numbers)

	_, err = svc.PartNumbers(context.Background(), 101)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
