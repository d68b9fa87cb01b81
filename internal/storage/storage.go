package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("concurrent modification")
	ErrInvalidReference = errors.New("invalid reference")
	ErrDuplicate        = errors.New("duplicate entry")
)

// UnresolvedEmployeesError lists employee names that matched no employee_master row.
type UnresolvedEmployeesError struct {
	ControlNumber int64
	Names         []string
}

func (e *UnresolvedEmployeesError) Error() string {
	return fmt.Sprintf("no valid employees found for control number %d: %s", e.ControlNumber, strings.Join(e.Names, ", "))
}
