package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/internal/application"
	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	"github.com/oksasatya/employee-management-api/pkg/response"
	"github.com/oksasatya/employee-management-api/pkg/validation"
)

type EmployeeHandler struct {
	Svc            *application.EmployeeService
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewEmployeeHandler(svc *application.EmployeeService, logger *logrus.Logger, maxUploadBytes int64) *EmployeeHandler {
	return &EmployeeHandler{Svc: svc, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

type employeeView struct {
	ID          string    `json:"_id"`
	Image       string    `json:"image"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	Designation string    `json:"designation"`
	Gender      string    `json:"gender"`
	Course      []string  `json:"course"`
	Status      string    `json:"status"`
	CreateDate  time.Time `json:"createDate"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toEmployeeView(e *entity.Employee) employeeView {
	course := e.Course
	if course == nil {
		course = []string{}
	}
	return employeeView{
		ID:          e.ID,
		Image:       e.Image,
		Name:        e.Name,
		Email:       e.Email,
		Mobile:      e.Mobile,
		Designation: e.Designation,
		Gender:      e.Gender,
		Course:      course,
		Status:      string(e.Status),
		CreateDate:  e.CreateDate,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEmployeeViews(list []entity.Employee) []employeeView {
	out := make([]employeeView, 0, len(list))
	for i := range list {
		out = append(out, toEmployeeView(&list[i]))
	}
	return out
}

// queryInt returns 0 for a missing or unparsable value, which the service treats as "use default".
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

func (h *EmployeeHandler) List(c *gin.Context) {
	page, err := h.Svc.List(c.Request.Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"employees":   toEmployeeViews(page.Employees),
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
	})
}

func (h *EmployeeHandler) Search(c *gin.Context) {
	list, err := h.Svc.Search(c.Request.Context(), strings.TrimSpace(c.Query("q")), queryInt(c, "size"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"employees": toEmployeeViews(list)})
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var form employeeForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindError(c, err)
		return
	}
	in, err := form.createInput()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	img, closeImg, err := h.uploadedImage(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	defer closeImg()

	e, err := h.Svc.Create(c.Request.Context(), in, img)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, toEmployeeView(e))
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	var form employeeForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindError(c, err)
		return
	}
	patch, err := form.patch()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	img, closeImg, err := h.uploadedImage(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	defer closeImg()

	e, err := h.Svc.Update(c.Request.Context(), c.Param("id"), patch, img)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, toEmployeeView(e))
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

func noop() {}

// uploadedImage returns the multipart "image" part, or nil when the request has none.
// Oversized files and files that do not sniff as an image are validation errors.
func (h *EmployeeHandler) uploadedImage(c *gin.Context) (*application.Image, func(), error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, noop, nil
	}
	if h.MaxUploadBytes > 0 && fh.Size > h.MaxUploadBytes {
		return nil, noop, imageError(fmt.Sprintf("Image must be at most %d bytes", h.MaxUploadBytes))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open upload: %w", err)
	}
	img, err := sniffImage(fh, f)
	if err != nil {
		_ = f.Close()
		return nil, noop, err
	}
	return img, func() { _ = f.Close() }, nil
}

func sniffImage(fh *multipart.FileHeader, f multipart.File) (*application.Image, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, imageError("Image must be an image file")
	}
	return &application.Image{
		Filename:    fh.Filename,
		ContentType: contentType,
		Body:        io.MultiReader(bytes.NewReader(head), f),
	}, nil
}

func imageError(msg string) error {
	return &application.ValidationError{Fields: []validation.FieldError{{Field: "image", Msg: msg}}}
}
