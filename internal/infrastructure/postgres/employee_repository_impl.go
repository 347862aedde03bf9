package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	"github.com/oksasatya/employee-management-api/internal/domain/repository"
)

const employeeColumns = `id, image, name, email, mobile, designation, gender, course, status, create_date, updated_at`

type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	e := &entity.Employee{}
	var status string
	if err := row.Scan(&e.ID, &e.Image, &e.Name, &e.Email, &e.Mobile, &e.Designation,
		&e.Gender, &e.Course, &status, &e.CreateDate, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = entity.EmployeeStatus(status)
	if e.Course == nil {
		e.Course = []string{}
	}
	return e, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *entity.Employee) error {
	course := e.Course
	if course == nil {
		course = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO employees (image, name, email, mobile, designation, gender, course, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, create_date, updated_at
	`, e.Image, e.Name, e.Email, e.Mobile, e.Designation, e.Gender, course, string(e.Status))
	return row.Scan(&e.ID, &e.CreateDate, &e.UpdatedAt)
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	e, err := scanEmployee(r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return e, err
}

func (r *EmployeeRepository) List(ctx context.Context, page repository.PageRequest) ([]entity.Employee, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		ORDER BY create_date ASC, id ASC
		LIMIT $1 OFFSET $2
	`, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]entity.Employee, 0, page.Limit)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *e)
	}
	return out, total, rows.Err()
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, patch repository.EmployeePatch) (*entity.Employee, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}

	query, args := updateQuery(id, patch)
	e, err := scanEmployee(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return e, err
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) (*entity.Employee, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	e, err := scanEmployee(r.pool.QueryRow(ctx, `DELETE FROM employees WHERE id = $1 RETURNING `+employeeColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return e, err
}

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)

// updateQuery builds an UPDATE that sets only the fields present in patch.
// The id is always the last argument.
func updateQuery(id string, patch repository.EmployeePatch) (string, []any) {
	clauses := []string{}
	args := []any{}
	set := func(col string, v any) {
		args = append(args, v)
		clauses = append(clauses, col+" = $"+strconv.Itoa(len(args)))
	}
	if patch.Image != nil {
		set("image", *patch.Image)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Mobile != nil {
		set("mobile", *patch.Mobile)
	}
	if patch.Designation != nil {
		set("designation", *patch.Designation)
	}
	if patch.Gender != nil {
		set("gender", *patch.Gender)
	}
	if patch.Course != nil {
		set("course", patch.Course)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	clauses = append(clauses, "updated_at = NOW()")
	args = append(args, id)

	query := `UPDATE employees SET ` + strings.Join(clauses, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + employeeColumns
	return query, args
}
