package status

import (
	"fmt"
	"strings"
)

// Action is a requested transition of a task assignment.
type Action int

const (
	// Accept is the employee picking up a pending or held task.
	Accept Action = iota + 1
	// Reassign explicitly brings any non-ongoing task back to ongoing.
	Reassign
	// Hold parks a task with a reason.
	Hold
	// Complete closes an ongoing task.
	Complete
)

func (a Action) String() string {
	switch a {
	case Accept:
		return "accept"
	case Reassign:
		return "reassign"
	case Hold:
		return "hold"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Target is the status an action leads to.
func (a Action) Target() Task {
	switch a {
	case Hold:
		return OnHold
	case Complete:
		return Completed
	default:
		return Ongoing
	}
}

// JobAction maps the status field of a job-status update onto an Action.
func JobAction(raw string) (Action, error) {
	t, err := ParseTask(raw)
	if err != nil {
		return 0, err
	}
	switch t {
	case Ongoing:
		return Reassign, nil
	case OnHold:
		return Hold, nil
	case Completed:
		return Complete, nil
	}
	return 0, fmt.Errorf("status %q cannot be requested", raw)
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// Change describes the column updates a transition performs.
type Change struct {
	From Task
	To   Task

	// StampStart sets actual_start_date to now when it is still NULL.
	StampStart bool
	StampEnd   bool
	ClearEnd   bool
	StampHold  bool
	ClearHold  bool

	// HoldReason is written when non-empty.
	HoldReason string
	// Reason is written when SetReason is true; ClearReason nulls the column.
	Reason      string
	SetReason   bool
	ClearReason bool
}

// TransitionContext provides the inputs of a transition guard.
type TransitionContext struct {
	Current Task
	Action  Action
	Reason  string
}

// CanTransition evaluates whether Action may be applied to a task in Current.
// Rules:
// - accept: current must be pending or on hold
// - reassign: current must not be ongoing
// - hold: current must be ongoing or pending and a reason is required
// - complete: current must be ongoing
func CanTransition(ctx TransitionContext) GuardResult {
	switch ctx.Action {
	case Accept:
		if ctx.Current == Ongoing {
			return GuardResult{Reason: "Task is already ongoing!"}
		}
		if ctx.Current != Pending && ctx.Current != OnHold {
			return GuardResult{
				Reason: fmt.Sprintf("Only PENDING or ON HOLD tasks can be accepted. Current status: %s, requested: %s", ctx.Current.Label(), Ongoing.Label()),
			}
		}
	case Reassign:
		if ctx.Current == Ongoing {
			return GuardResult{Reason: "Task is already ongoing!"}
		}
	case Hold:
		if ctx.Current != Ongoing && ctx.Current != Pending {
			return GuardResult{
				Reason: fmt.Sprintf("Only ONGOING or PENDING tasks can be put on hold. Current status: %s, requested: %s", ctx.Current.Label(), OnHold.Label()),
			}
		}
		if strings.TrimSpace(ctx.Reason) == "" {
			return GuardResult{Reason: "Hold reason is required"}
		}
	case Complete:
		if ctx.Current != Ongoing {
			return GuardResult{
				Reason: fmt.Sprintf("Cannot complete task. Only ONGOING tasks can be completed. Current status: %s, requested: %s", ctx.Current.Label(), Completed.Label()),
			}
		}
	default:
		return GuardResult{Reason: "Invalid status"}
	}

	return GuardResult{Allowed: true}
}

// Plan runs the guard and, when allowed, returns the column changes.
func Plan(ctx TransitionContext) (Change, GuardResult) {
	res := CanTransition(ctx)
	if !res.Allowed {
		return Change{}, res
	}

	ch := Change{From: ctx.Current, To: ctx.Action.Target()}
	switch ctx.Action {
	case Accept:
		// the hold reason stays for history, the hold stamp must go
		ch.StampStart = true
		ch.ClearHold = true
	case Reassign:
		ch.StampStart = true
		ch.ClearReason = true
		ch.ClearHold = true
		ch.ClearEnd = true
	case Hold:
		ch.HoldReason = strings.TrimSpace(ctx.Reason)
		ch.StampHold = true
		ch.ClearEnd = true
	case Complete:
		ch.Reason = strings.TrimSpace(ctx.Reason)
		if ch.Reason == "" {
			ch.Reason = DefaultCompletionReason
		}
		ch.SetReason = true
		ch.StampEnd = true
		ch.ClearHold = true
	}

	return ch, res
}

// DerivePartStatus aggregates the statuses of every assignment covering a part.
func DerivePartStatus(statuses []Task) Part {
	if len(statuses) == 0 {
		return PartNotStarted
	}

	var completed, ongoing int
	for _, s := range statuses {
		switch s {
		case Completed:
			completed++
		case Ongoing:
			ongoing++
		}
	}

	switch {
	case completed == len(statuses):
		return PartCompleted
	case ongoing > 0:
		return PartOngoing
	case completed > 0:
		return PartPartiallyCompleted
	default:
		return PartNotStarted
	}
}
