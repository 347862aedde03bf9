package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	"github.com/oksasatya/employee-management-api/internal/domain/repository"
)

// EmployeeRepository keeps employees in insertion order. CreateDate is forced to be
// strictly increasing, so insertion order is also (CreateDate, ID) order.
type EmployeeRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]entity.Employee
	last  time.Time
	now   func() time.Time
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		byID: make(map[string]entity.Employee),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func clone(e entity.Employee) *entity.Employee {
	e.Course = append([]string{}, e.Course...)
	return &e
}

func (r *EmployeeRepository) Create(_ context.Context, e *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !now.After(r.last) {
		now = r.last.Add(time.Nanosecond)
	}
	r.last = now

	e.ID = uuid.NewString()
	e.CreateDate = now
	e.UpdatedAt = now
	if e.Course == nil {
		e.Course = []string{}
	}
	r.byID[e.ID] = *clone(*e)
	r.order = append(r.order, e.ID)
	return nil
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(e), nil
}

func (r *EmployeeRepository) List(_ context.Context, page repository.PageRequest) ([]entity.Employee, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := int64(len(r.order))
	start := page.Offset()
	if start < 0 || start > len(r.order) {
		start = len(r.order)
	}
	end := start + page.Limit
	if end > len(r.order) {
		end = len(r.order)
	}
	out := make([]entity.Employee, 0, end-start)
	for _, id := range r.order[start:end] {
		out = append(out, *clone(r.byID[id]))
	}
	return out, total, nil
}

func (r *EmployeeRepository) Update(_ context.Context, id string, patch repository.EmployeePatch) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&e)
	e.UpdatedAt = r.now()
	r.byID[id] = e
	return clone(e), nil
}

func (r *EmployeeRepository) Delete(_ context.Context, id string) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return clone(e), nil
}

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)
