// Package audit writes business events to the logs table.
package audit

import (
	"context"
	"log/slog"
	"time"
)

const (
	EventLogin             = "User Login"
	EventLoginFailed       = "Login Failed"
	EventLogout            = "LOGOUT"
	EventWorkOrderCreated  = "Work Order Created"
	EventPartsAdded        = "Parts Added"
	EventTasksAssigned     = "ASSIGN_TASK"
	EventTaskStatusChanged = "TASK_STATUS_CHANGED"
	EventControlFinished   = "CONTROL_NUMBER_UPDATED"
	EventMenusAssigned     = "Role Menu Assignment"
)

type EventWriter interface {
	LogEvent(ctx context.Context, event, description string) error
}

type Recorder struct {
	log    *slog.Logger
	writer EventWriter
}

func New(log *slog.Logger, writer EventWriter) *Recorder {
	return &Recorder{log: log, writer: writer}
}

// Record stores the event. A failure is logged and never returned: the audit
// trail must not fail the request that produced it.
func (r *Recorder) Record(ctx context.Context, event, description string) {
	if r == nil || r.writer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := r.writer.LogEvent(ctx, event, description); err != nil {
		r.log.Error("failed to write audit event",
			slog.String("op", "audit.Record"),
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}
