package storage

import (
	"time"

	"modelshop/internal/status"
)

// Task is one assign_task row joined with its work order priority.
type Task struct {
	ID              int64      `json:"id"`
	ControlNumber   int64      `json:"control_number"`
	PartNumbers     []string   `json:"part_number"`
	EmployeeID      string     `json:"employee_id"`
	AssignedBy      *string    `json:"assigned_by"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	ActualStartDate *time.Time `json:"actual_start_date"`
	ActualEndDate   *time.Time `json:"actual_end_date"`
	OnHoldDate      *time.Time `json:"on_hold_date"`
	Status          *string    `json:"status"`
	HoldReason      *string    `json:"hold_reason"`
	Reason          *string    `json:"reason"`
	DocUploadPath   *string    `json:"doc_upload_path"`
	Priority        string     `json:"priority,omitempty"`
}

// TaskScope narrows a transition to rows owned by an employee or assigner.
type TaskScope struct {
	EmployeeID string
	AssignedBy string
}

// TransitionFunc decides the change for a locked row. Returning an error aborts
// the transaction without writing.
type TransitionFunc func(current status.Task) (status.Change, error)

// TransitionResult is the row state after a committed transition.
type TransitionResult struct {
	ID              int64
	ControlNumber   int64
	EmployeeID      string
	From            status.Task
	To              status.Task
	ActualStartDate *time.Time
	ActualEndDate   *time.Time
	OnHoldDate      *time.Time
	HoldReason      *string
	Reason          *string
}

// TaskFilter selects the task list. All and Finished are mutually exclusive
// with Status.
type TaskFilter struct {
	All      bool
	Finished bool
	Status   status.Task
}

// NewAssignment is one element of a bulk assignment request.
type NewAssignment struct {
	ControlNumber int64
	PartNumbers   []string
	EmployeeNames []string
	StartDate     time.Time
	EndDate       time.Time
	DocUploadPath string
	AssignedBy    string
}

// AssignmentOutcome is what a committed assignment element produced.
type AssignmentOutcome struct {
	TaskIDs     []int64
	EmployeeIDs []string
}

// JobDetails is the single-assignment view used by the job page.
type JobDetails struct {
	ID            int64        `json:"id"`
	ControlNumber int64        `json:"control_number"`
	Status        *string      `json:"status"`
	PartNumbers   []string     `json:"part_number"`
	StartDate     *time.Time   `json:"start_date"`
	EndDate       *time.Time   `json:"end_date"`
	EmployeeNames string       `json:"employee_names"`
	PartDetails   []PartDetail `json:"part_details"`
	GroupSection  string       `json:"group_section"`
	Priority      string       `json:"priority"`
}
