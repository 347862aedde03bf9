package repository

import (
	"context"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
)

// PageRequest selects one page of a listing. Page is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset is the number of records skipped before this page.
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// EmployeePatch carries the fields of a partial update. Nil fields keep their stored value.
type EmployeePatch struct {
	Image       *string
	Name        *string
	Email       *string
	Mobile      *string
	Designation *string
	Gender      *string
	Course      []string
	Status      *entity.EmployeeStatus
}

// Empty reports whether the patch changes nothing.
func (p EmployeePatch) Empty() bool {
	return p.Image == nil && p.Name == nil && p.Email == nil && p.Mobile == nil &&
		p.Designation == nil && p.Gender == nil && p.Course == nil && p.Status == nil
}

// Apply copies the supplied fields onto e.
func (p EmployeePatch) Apply(e *entity.Employee) {
	if p.Image != nil {
		e.Image = *p.Image
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Mobile != nil {
		e.Mobile = *p.Mobile
	}
	if p.Designation != nil {
		e.Designation = *p.Designation
	}
	if p.Gender != nil {
		e.Gender = *p.Gender
	}
	if p.Course != nil {
		e.Course = append([]string(nil), p.Course...)
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
}

// EmployeeRepository persists employees. Listings are ordered by CreateDate, then ID,
// so pages stay stable while no writes happen.
type EmployeeRepository interface {
	// Create assigns ID, CreateDate and UpdatedAt.
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	// List returns one page plus the total number of employees (unfiltered).
	List(ctx context.Context, page PageRequest) ([]entity.Employee, int64, error)
	// Update applies patch and returns the stored record, or ErrNotFound.
	Update(ctx context.Context, id string, patch EmployeePatch) (*entity.Employee, error)
	// Delete removes the record and returns it, or ErrNotFound.
	Delete(ctx context.Context, id string) (*entity.Employee, error)
}
