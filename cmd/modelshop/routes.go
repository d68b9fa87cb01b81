package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"modelshop/http-server/account"
	getcontrol "modelshop/http-server/control-numbers/get"
	upcontrol "modelshop/http-server/control-numbers/update"
	getdirectory "modelshop/http-server/directory/get"
	generate_excel "modelshop/http-server/generate-report/generate-excel"
	getnotifications "modelshop/http-server/notifications/get"
	upnotifications "modelshop/http-server/notifications/update"
	getparts "modelshop/http-server/parts/get"
	saveparts "modelshop/http-server/parts/save"
	getroles "modelshop/http-server/roles/get"
	saveroles "modelshop/http-server/roles/save"
	upstatus "modelshop/http-server/task-status/update"
	gettasks "modelshop/http-server/tasks/get"
	savetasks "modelshop/http-server/tasks/save"
	saveworkorder "modelshop/http-server/work-order/save"
	"modelshop/internal/config"
	"modelshop/internal/middleware/auth"
)

func routes(cfg *config.Config, log *slog.Logger, app *app) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	secret := []byte(cfg.Auth.JWTSecret)
	requires := func(perms ...int64) func(http.Handler) http.Handler {
		return auth.RequirePermissions(log, secret, app.blacklist, perms...)
	}
	maxUpload := cfg.Files.MaxUploadSize

	// session
	router.Post("/api/login", account.Login(log, app.account))
	router.Post("/logout", account.Logout(log, app.account))
	router.With(requires()).Get("/api/permissions/current_user", account.CurrentUserPermissions(log, app.account))

	// roles and menus
	router.Get("/api/roles", getroles.GetRoles(log, app.storage))
	router.Get("/api/menus", getroles.GetMenus(log, app.storage))
	router.Get("/api/assigned-menus/{roleId}", getroles.GetAssignedMenus(log, app.storage))
	router.With(requires(auth.PermUpdate)).Post("/api/assign-menus", saveroles.AssignMenus(log, app.storage, app.audit))

	// work orders and parts
	router.With(requires(auth.PermCreate)).Post("/api/work-order", saveworkorder.SaveWorkOrder(log, app.workOrder, app.files, maxUpload))
	router.With(requires(auth.PermCreate)).Post("/api/part", saveparts.SaveParts(log, app.workOrder))
	router.Get("/parts/{controlNumber}", getparts.GetPartNumbers(log, app.workOrder))

	// control numbers
	router.Get("/api/control-numbers", getcontrol.ActiveControlNumbers(log, app.storage))
	router.With(requires(auth.PermUpdate)).Put("/api/control-numbers", upcontrol.FinishControlNumber(log, app.tasks))

	// assignment
	router.Get("/api/trades", getdirectory.GetTrades(log, app.storage))
	router.Get("/api/employees/{tradeId}", getdirectory.GetEmployeesByTrade(log, app.storage))
	router.Get("/api/employee/details/{id}", getdirectory.GetEmployeeDetails(log, app.storage))
	router.With(requires(auth.PermCreate)).Post("/api/assign_tasks", savetasks.AssignTasks(log, app.assign, app.files, maxUpload))

	// task status
	router.Post("/update-task-status", upstatus.UpdateTaskStatus(log, app.tasks))
	router.Post("/update-job-status", upstatus.UpdateJobStatus(log, app.tasks))

	// task reads
	router.Get("/api/tasks/status/{status}", gettasks.TasksByStatus(log, app.jobs))
	router.Get("/api/tasks/export", generate_excel.GenerateReportExcel(log, app.report))
	router.Get("/api/assigned-jobs/{empId}", gettasks.AssignedJobs(log, app.jobs))
	router.Get("/api/job-details/{controlNumber}/{id}", gettasks.JobDetails(log, app.jobs))

	// notifications
	router.Get("/api/notifications/{employeeId}", getnotifications.GetNotifications(log, app.storage))
	router.Post("/api/notifications/read/{empId}", upnotifications.MarkAllRead(log, app.storage))

	if app.localDir != "" {
		prefix := "/" + strings.Trim(cfg.Files.PublicPrefix, "/")
		router.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(app.localDir))))
	}

	return router
}
