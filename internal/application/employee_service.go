package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	repo "github.com/oksasatya/employee-management-api/internal/domain/repository"
)

// ImageStore saves uploaded images and returns a reference that clients can resolve.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// EmployeeIndexer keeps a search index in sync with the repository.
type EmployeeIndexer interface {
	Index(ctx context.Context, e *entity.Employee) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// Image is an uploaded file handed over by the HTTP layer.
type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type EmployeeService struct {
	Repo   repo.EmployeeRepository
	Images ImageStore
	Index  EmployeeIndexer // nil disables search
	Logger *logrus.Logger

	DefaultLimit int
	MaxLimit     int
}

func NewEmployeeService(r repo.EmployeeRepository, images ImageStore, index EmployeeIndexer, logger *logrus.Logger, defaultLimit, maxLimit int) *EmployeeService {
	if defaultLimit < 1 {
		defaultLimit = 5
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &EmployeeService{Repo: r, Images: images, Index: index, Logger: logger, DefaultLimit: defaultLimit, MaxLimit: maxLimit}
}

type EmployeePage struct {
	Employees   []entity.Employee
	TotalPages  int
	CurrentPage int
}

// Normalize applies the page defaults and the page size cap.
func (s *EmployeeService) Normalize(page, limit int) repo.PageRequest {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.DefaultLimit
	}
	if limit > s.MaxLimit {
		limit = s.MaxLimit
	}
	// keep (page-1)*limit inside int
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return repo.PageRequest{Page: page, Limit: limit}
}

func (s *EmployeeService) List(ctx context.Context, page, limit int) (*EmployeePage, error) {
	req := s.Normalize(page, limit)
	items, total, err := s.Repo.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return &EmployeePage{
		Employees:   items,
		TotalPages:  int((total + int64(req.Limit) - 1) / int64(req.Limit)),
		CurrentPage: req.Page,
	}, nil
}

type CreateEmployeeInput struct {
	Name        string
	Email       string
	Mobile      string
	Designation string
	Gender      string
	Course      []string
	Status      entity.EmployeeStatus
}

func (s *EmployeeService) Create(ctx context.Context, in CreateEmployeeInput, img *Image) (*entity.Employee, error) {
	if img == nil {
		return nil, invalid("image", "Image is required")
	}
	ref, err := s.Images.Save(ctx, img.Filename, img.ContentType, img.Body)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	status := in.Status
	if status == "" {
		status = entity.StatusActive
	}
	e := &entity.Employee{
		Image:       ref,
		Name:        in.Name,
		Email:       in.Email,
		Mobile:      in.Mobile,
		Designation: in.Designation,
		Gender:      in.Gender,
		Course:      in.Course,
		Status:      status,
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		s.dropImage(ctx, ref)
		return nil, fmt.Errorf("create employee: %w", err)
	}
	s.index(ctx, e)
	return e, nil
}

// Update applies the supplied fields. A new image replaces the stored one.
func (s *EmployeeService) Update(ctx context.Context, id string, patch repo.EmployeePatch, img *Image) (*entity.Employee, error) {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound(err)
	}

	var newRef string
	if img != nil {
		newRef, err = s.Images.Save(ctx, img.Filename, img.ContentType, img.Body)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		patch.Image = &newRef
	}

	updated, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		if newRef != "" {
			s.dropImage(ctx, newRef)
		}
		return nil, s.notFound(err)
	}
	if newRef != "" && current.Image != newRef {
		s.dropImage(ctx, current.Image)
	}
	s.index(ctx, updated)
	return updated, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	e, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return s.notFound(err)
	}
	s.dropImage(ctx, e.Image)
	if s.Index != nil {
		if err := s.Index.Remove(ctx, e.ID); err != nil {
			s.warn(err, e.ID, "remove from search index failed")
		}
	}
	return nil
}

// Search returns employees matching q, best match first. Ids the index knows but the
// repository no longer has are skipped.
func (s *EmployeeService) Search(ctx context.Context, q string, size int) ([]entity.Employee, error) {
	out := []entity.Employee{}
	if s.Index == nil || q == "" {
		return out, nil
	}
	if size < 1 || size > s.MaxLimit {
		size = s.DefaultLimit
	}
	ids, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	for _, id := range ids {
		e, err := s.Repo.GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *EmployeeService) notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	return err
}

func (s *EmployeeService) index(ctx context.Context, e *entity.Employee) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, e); err != nil {
		s.warn(err, e.ID, "search index failed")
	}
}

func (s *EmployeeService) dropImage(ctx context.Context, ref string) {
	if ref == "" || s.Images == nil {
		return
	}
	if err := s.Images.Delete(ctx, ref); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("image", ref).Warn("delete image failed")
	}
}

func (s *EmployeeService) warn(err error, id, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("employee_id", id).Warn(msg)
	}
}
