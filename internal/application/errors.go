package application

import (
	"errors"
	"strings"

	"github.com/oksasatya/employee-management-api/pkg/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
)

// ValidationError carries every rule violation found in one request.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: []validation.FieldError{{Field: field, Msg: msg}}}
}
