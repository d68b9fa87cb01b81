package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	resp "modelshop/internal/lib/api/response"
)

type ReportGenerator interface {
	GenerateExcel(ctx context.Context, rawStatus string) ([]byte, error)
}

// GenerateReportExcel streams the task report as an xlsx attachment.
// The optional status query parameter filters the rows; it defaults to All.
func GenerateReportExcel(log *slog.Logger, gen ReportGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"

		rawStatus := r.URL.Query().Get("status")
		if rawStatus == "" {
			rawStatus = "All"
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, rawStatus)
		if err != nil {
			resp.FailErr(w, r, log, op, err, "Failed to generate report")
			return
		}

		fileName := fmt.Sprintf("Tasks_Report_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		if _, err := w.Write(excelBytes); err != nil {
			log.Error("failed to write report", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}
