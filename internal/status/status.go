// Package status holds the task and part status vocabulary and the pure rules
// that move a task assignment between states. Nothing here touches storage.
package status

import (
	"fmt"
	"strings"
)

// Task is the status of a single task assignment.
// The zero value is Pending, which is stored as NULL.
type Task string

const (
	Pending   Task = ""
	Ongoing   Task = "ongoing"
	OnHold    Task = "on hold"
	Completed Task = "completed"
)

// Part is the status of a (control number, part number) pair.
type Part string

const (
	PartNotStarted         Part = "not started"
	PartOngoing            Part = "ongoing"
	PartPartiallyCompleted Part = "partially completed"
	PartCompleted          Part = "completed"
	PartFinished           Part = "finished"
)

// DefaultCompletionReason is stored when a task is completed without a reason.
const DefaultCompletionReason = "Task completed successfully"

// Normalize trims and lowercases raw client input.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseTask maps raw input onto a Task. "pending" and "" both mean Pending.
func ParseTask(raw string) (Task, error) {
	switch s := Normalize(raw); s {
	case "", "pending", "null":
		return Pending, nil
	case string(Ongoing):
		return Ongoing, nil
	case string(OnHold):
		return OnHold, nil
	case string(Completed):
		return Completed, nil
	default:
		return Pending, fmt.Errorf("unknown task status %q", raw)
	}
}

// FromDB converts a nullable column value into a Task. Unknown values are kept
// as-is so the guards can report them instead of silently treating them as pending.
func FromDB(value *string) Task {
	if value == nil {
		return Pending
	}
	t, err := ParseTask(*value)
	if err != nil {
		return Task(Normalize(*value))
	}
	return t
}

// DBValue is the column value for t; Pending is NULL.
func (t Task) DBValue() *string {
	if t == Pending {
		return nil
	}
	s := string(t)
	return &s
}

func (t Task) String() string {
	if t == Pending {
		return "pending"
	}
	return string(t)
}

// Label is the upper-case form used in rejection messages.
func (t Task) Label() string {
	if t == Pending {
		return "NULL"
	}
	return strings.ToUpper(string(t))
}

func (t Task) Valid() bool {
	switch t {
	case Pending, Ongoing, OnHold, Completed:
		return true
	}
	return false
}

// ParsePart maps raw input onto a Part.
func ParsePart(raw string) (Part, error) {
	switch p := Part(Normalize(raw)); p {
	case PartNotStarted, PartOngoing, PartPartiallyCompleted, PartCompleted, PartFinished:
		return p, nil
	default:
		return "", fmt.Errorf("unknown part status %q", raw)
	}
}
