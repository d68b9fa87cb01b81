package generate_excel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"modelshop/internal/status"
	"modelshop/internal/storage"
)

const sheet = "Tasks"

type TaskLister interface {
	List(ctx context.Context, rawStatus string) ([]storage.Task, error)
}

type GenerateExcelService struct {
	tasks TaskLister
}

func NewGenerateService(tasks TaskLister) *GenerateExcelService {
	return &GenerateExcelService{tasks: tasks}
}

var headers = []string{
	"ID", "Control Number", "Part Numbers", "Employee", "Assigned By", "Priority", "Status",
	"Start Date", "End Date", "Actual Start", "Actual End", "On Hold Since", "Hold Reason", "Reason",
}

// GenerateExcel renders the task list of the given status filter as a workbook.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, rawStatus string) ([]byte, error) {
	tasks, err := g.tasks.List(ctx, rawStatus)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, err
	}

	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), headerStyle)

	for rowIdx, t := range tasks {
		row := []any{
			t.ID,
			t.ControlNumber,
			strings.Join(t.PartNumbers, ", "),
			t.EmployeeID,
			str(t.AssignedBy),
			t.Priority,
			status.FromDB(t.Status).String(),
			date(t.StartDate),
			date(t.EndDate),
			date(t.ActualStartDate),
			date(t.ActualEndDate),
			date(t.OnHoldDate),
			str(t.HoldReason),
			str(t.Reason),
		}
		for col, v := range row {
			f.SetCellValue(sheet, cellName(col+1, rowIdx+2), v)
		}
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(sheet, "A", "B", 12)
	f.SetColWidth(sheet, "C", "N", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
