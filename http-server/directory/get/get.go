package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"modelshop/internal/lib/api/request"
	resp "modelshop/internal/lib/api/response"
	"modelshop/internal/storage"
)

type Directory interface {
	Trades(ctx context.Context) ([]storage.Trade, error)
	EmployeesByTrade(ctx context.Context, tradeID int64) ([]storage.Employee, error)
	EmployeeDetails(ctx context.Context, employeeID string) (storage.EmployeeDetails, error)
}

func GetTrades(log *slog.Logger, dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.directory.get.GetTrades"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		trades, err := dir.Trades(ctx)
		if err != nil {
			log.Error("failed to fetch trades", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusInternalServerError, "Server error fetching trades")
			return
		}

		render.JSON(w, r, trades)
	}
}

func GetEmployeesByTrade(log *slog.Logger, dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.directory.get.GetEmployeesByTrade"

		tradeID, err := request.ParseID(chi.URLParam(r, "tradeId"))
		if err != nil {
			resp.Fail(w, r, http.StatusBadRequest, "Invalid trade id")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		employees, err := dir.EmployeesByTrade(ctx, tradeID)
		if err != nil {
			log.Error("failed to fetch employees", slog.String("op", op), slog.Int64("trade_id", tradeID), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusInternalServerError, "Server error")
			return
		}
		if len(employees) == 0 {
			resp.Fail(w, r, http.StatusNotFound, "No employees found for this trade.")
			return
		}

		render.JSON(w, r, employees)
	}
}

func GetEmployeeDetails(log *slog.Logger, dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.directory.get.GetEmployeeDetails"

		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		details, err := dir.EmployeeDetails(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			resp.Fail(w, r, http.StatusNotFound, "Employee not found")
			return
		}
		if err != nil {
			log.Error("failed to fetch employee", slog.String("op", op), slog.String("error", err.Error()))
			resp.Fail(w, r, http.StatusInternalServerError, "Server error")
			return
		}

		render.JSON(w, r, details)
	}
}
