package entity

import "time"

type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "active"
	StatusInactive EmployeeStatus = "inactive"
)

// Valid reports whether s is one of the known statuses.
func (s EmployeeStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Employee is an employee record. It is unrelated to User; the two only share a database.
type Employee struct {
	ID          string
	Image       string // reference returned by the image store
	Name        string
	Email       string
	Mobile      string
	Designation string
	Gender      string
	Course      []string
	Status      EmployeeStatus
	CreateDate  time.Time // immutable after creation
	UpdatedAt   time.Time
}
