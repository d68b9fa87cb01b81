package storage

import "time"

// Account is the login view of an employee.
type Account struct {
	EmployeeID   string
	EmployeeName string
	RoleID       int64
	RoleName     string
	PasswordHash string
}

type Role struct {
	ID   int64  `json:"role_id"`
	Name string `json:"role_name"`
}

type Menu struct {
	ID   int64  `json:"menu_id"`
	Name string `json:"menu_name"`
}

type Employee struct {
	ID   string `json:"employee_id"`
	Name string `json:"employee_name"`
}

type EmployeeDetails struct {
	ID          string  `json:"employee_id"`
	Name        string  `json:"employee_name"`
	Email       *string `json:"email_id"`
	Designation *string `json:"designation"`
}

type Trade struct {
	ID   int64  `json:"trade_id"`
	Name string `json:"trade_name"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
