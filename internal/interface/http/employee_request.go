package handlers

import (
	"encoding/json"
	"strings"

	"github.com/oksasatya/employee-management-api/internal/application"
	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	repo "github.com/oksasatya/employee-management-api/internal/domain/repository"
	"github.com/oksasatya/employee-management-api/pkg/validation"
)

// courseList accepts a JSON array, repeated form values, or one JSON-encoded array
// string (what the web client sends from multipart forms).
type courseList []string

func (l *courseList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*l = courseList{s}
	return nil
}

// values expands an encoded array and trims every entry. Nil stays nil.
func (l courseList) values() []string {
	if l == nil {
		return nil
	}
	if len(l) == 1 {
		if s := strings.TrimSpace(l[0]); strings.HasPrefix(s, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				l = arr
			}
		}
	}
	out := make([]string, 0, len(l))
	for _, c := range l {
		out = append(out, strings.TrimSpace(c))
	}
	return out
}

// employeeForm is decoded from JSON, urlencoded or multipart bodies. It carries no rules;
// rules live on createEmployeeRequest and updateEmployeeRequest, which are built after
// course has been normalized.
type employeeForm struct {
	Name        *string    `json:"name" form:"name"`
	Email       *string    `json:"email" form:"email"`
	Mobile      *string    `json:"mobile" form:"mobile"`
	Designation *string    `json:"designation" form:"designation"`
	Gender      *string    `json:"gender" form:"gender"`
	Course      courseList `json:"course" form:"course"`
	Status      *string    `json:"status" form:"status"`
}

type createEmployeeRequest struct {
	Name        string   `json:"name" binding:"notblank"`
	Email       string   `json:"email" binding:"required,email"`
	Mobile      string   `json:"mobile" binding:"required,mobile"`
	Designation string   `json:"designation" binding:"notblank"`
	Gender      string   `json:"gender" binding:"notblank"`
	Course      []string `json:"course" binding:"required,min=1,dive,notblank"`
	Status      string   `json:"status" binding:"omitempty,oneof=active inactive"`
}

type updateEmployeeRequest struct {
	Name        *string  `json:"name" binding:"omitnil,notblank"`
	Email       *string  `json:"email" binding:"omitnil,email"`
	Mobile      *string  `json:"mobile" binding:"omitnil,mobile"`
	Designation *string  `json:"designation" binding:"omitnil,notblank"`
	Gender      *string  `json:"gender" binding:"omitnil,notblank"`
	Course      []string `json:"course" binding:"omitnil,min=1,dive,notblank"`
	Status      *string  `json:"status" binding:"omitnil,oneof=active inactive"`
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

func value(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func (f employeeForm) createInput() (application.CreateEmployeeInput, error) {
	req := createEmployeeRequest{
		Name:        value(f.Name),
		Email:       value(f.Email),
		Mobile:      value(f.Mobile),
		Designation: value(f.Designation),
		Gender:      value(f.Gender),
		Course:      f.Course.values(),
		Status:      value(f.Status),
	}
	if errs := validation.Validate(&req); errs != nil {
		return application.CreateEmployeeInput{}, &application.ValidationError{Fields: errs}
	}
	return application.CreateEmployeeInput{
		Name:        req.Name,
		Email:       req.Email,
		Mobile:      req.Mobile,
		Designation: req.Designation,
		Gender:      req.Gender,
		Course:      req.Course,
		Status:      entity.EmployeeStatus(req.Status),
	}, nil
}

func (f employeeForm) patch() (repo.EmployeePatch, error) {
	req := updateEmployeeRequest{
		Name:        trimmed(f.Name),
		Email:       trimmed(f.Email),
		Mobile:      trimmed(f.Mobile),
		Designation: trimmed(f.Designation),
		Gender:      trimmed(f.Gender),
		Course:      f.Course.values(),
		Status:      trimmed(f.Status),
	}
	if errs := validation.Validate(&req); errs != nil {
		return repo.EmployeePatch{}, &application.ValidationError{Fields: errs}
	}
	p := repo.EmployeePatch{
		Name:        req.Name,
		Email:       req.Email,
		Mobile:      req.Mobile,
		Designation: req.Designation,
		Gender:      req.Gender,
		Course:      req.Course,
	}
	if req.Status != nil {
		st := entity.EmployeeStatus(*req.Status)
		p.Status = &st
	}
	return p, nil
}
