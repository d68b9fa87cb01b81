package generate_excel

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"modelshop/internal/lib/apperr"
)

type MockReportGenerator struct {
	mock.Mock
}

func (m *MockReportGenerator) GenerateExcel(ctx context.Context, rawStatus string) ([]byte, error) {
	args := m.Called(ctx, rawStatus)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func TestGenerateReportExcel(t *testing.T) {
	gen := new(MockReportGenerator)
	gen.On("GenerateExcel", mock.Anything, "All").Return([]byte("PK-xlsx"), nil)
	gen.On("GenerateExcel", mock.Anything, "bogus").Return(nil, apperr.Validation("Invalid status: bogus"))

	h := GenerateReportExcel(slog.Default(), gen)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reports/tasks", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "Tasks_Report_")
	assert.Equal(t, "PK-xlsx", rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reports/tasks?status=bogus", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid status: bogus")
}
