package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the given key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user with the same email already exists.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// UserRepository defines the credential store. Emails are passed in normalized form.
type UserRepository interface {
	// Create assigns ID and CreatedAt. Returns ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
