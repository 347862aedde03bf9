package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/employee-management-api/config"
	"github.com/oksasatya/employee-management-api/internal/container"
	"github.com/oksasatya/employee-management-api/internal/infrastructure/memory"
	"github.com/oksasatya/employee-management-api/internal/infrastructure/storage"
	"github.com/oksasatya/employee-management-api/pkg/helpers"
	"github.com/oksasatya/employee-management-api/pkg/validation"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type errorsBody struct {
	Errors    []validation.FieldError `json:"errors"`
	RequestID string                  `json:"request_id"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		AppName:            "test",
		Env:                "test",
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		BcryptCost:         bcrypt.MinCost,
		PageSizeDefault:    5,
		PageSizeMax:        100,
		ImageStore:         config.ImageStoreLocal,
		UploadDir:          dir,
		MaxUploadBytes:     1 << 20,
		CORSAllowedOrigins: "http://localhost:3000",
		MetricsEnabled:     true,
	}
	images, err := storage.NewLocalStore(dir)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	c := container.New(cfg, helpers.NewDiscardLogger())
	c.Users = memory.NewUserRepository()
	c.Employees = memory.NewEmployeeRepository()
	c.Images = images
	c.Health["storage"] = func(context.Context) bool { return true }

	return &testServer{t: t, engine: NewEngine(c)}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	s.t.Helper()
	if s.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) json(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

// multipartReq builds a multipart request. Repeated keys use a slice value.
func (s *testServer) multipart(method, path string, fields map[string][]string, image []byte) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			_ = mw.WriteField(k, v)
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		if err != nil {
			s.t.Fatalf("form file: %v", err)
		}
		_, _ = fw.Write(image)
	}
	_ = mw.Close()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	w := s.json(http.MethodPost, "/api/auth/register", map[string]string{"name": "Admin", "email": "admin@x.com", "password": "secret1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	var out struct{ Token string }
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Token == "" {
		t.Fatalf("no token in %s", w.Body.String())
	}
	s.token = out.Token
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) errorsBody {
	t.Helper()
	var b errorsBody
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return b
}

func validEmployee(name string) map[string][]string {
	return map[string][]string{
		"name":        {name},
		"email":       {strings.ToLower(name) + "@corp.com"},
		"mobile":      {"9876543210"},
		"designation": {"HR"},
		"gender":      {"F"},
		"course":      {"MCA", "BCA"},
	}
}

type employeeJSON struct {
	ID         string    `json:"_id"`
	Image      string    `json:"image"`
	Name       string    `json:"name"`
	Mobile     string    `json:"mobile"`
	Course     []string  `json:"course"`
	Status     string    `json:"status"`
	CreateDate time.Time `json:"createDate"`
}

func TestRegisterValidationAndConflict(t *testing.T) {
	s := newTestServer(t)

	w := s.json(http.MethodPost, "/api/auth/register", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
	got := decodeErrors(t, w)
	want := []validation.FieldError{
		{Field: "name", Msg: "Name is required"},
		{Field: "email", Msg: "Email is required"},
		{Field: "password", Msg: "Password must be at least 6 characters long"},
	}
	if len(got.Errors) != len(want) {
		t.Fatalf("errors = %+v", got.Errors)
	}
	for i := range want {
		if got.Errors[i] != want[i] {
			t.Errorf("error %d = %+v, want %+v", i, got.Errors[i], want[i])
		}
	}
	if got.RequestID == "" {
		t.Errorf("request_id missing")
	}

	s.login(t)
	w = s.json(http.MethodPost, "/api/auth/register", map[string]string{"name": "Other", "email": "ADMIN@x.com", "password": "secret2"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate status %d", w.Code)
	}
	if b := decodeErrors(t, w); len(b.Errors) != 1 || b.Errors[0].Msg != "User already exists" {
		t.Fatalf("duplicate body %s", w.Body.String())
	}
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	s.token = ""

	wrong := s.json(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@x.com", "password": "wrong-pw"})
	unknown := s.json(http.MethodPost, "/api/auth/login", map[string]string{"email": "nobody@x.com", "password": "secret1"})
	if wrong.Code != http.StatusBadRequest || unknown.Code != http.StatusBadRequest {
		t.Fatalf("status %d / %d", wrong.Code, unknown.Code)
	}
	a, b := decodeErrors(t, wrong), decodeErrors(t, unknown)
	if len(a.Errors) != 1 || len(b.Errors) != 1 || a.Errors[0] != b.Errors[0] || a.Errors[0].Msg != "Invalid credentials" {
		t.Fatalf("bodies differ: %s vs %s", wrong.Body.String(), unknown.Body.String())
	}

	ok := s.json(http.MethodPost, "/api/auth/login", map[string]string{"email": "Admin@X.com", "password": "secret1"})
	if ok.Code != http.StatusOK {
		t.Fatalf("login: %d %s", ok.Code, ok.Body.String())
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			Name string `json:"name"`
		} `json:"user"`
	}
	_ = json.Unmarshal(ok.Body.Bytes(), &out)
	if out.Token == "" || out.User.Name != "Admin" {
		t.Fatalf("login body %s", ok.Body.String())
	}

	s.token = out.Token
	me := s.do(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if me.Code != http.StatusOK || !strings.Contains(me.Body.String(), `"email":"admin@x.com"`) || strings.Contains(me.Body.String(), "password") {
		t.Fatalf("me: %d %s", me.Code, me.Body.String())
	}
}

func TestEmployeeRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/employees"},
		{http.MethodPost, "/api/employees"},
		{http.MethodPut, "/api/employees/abc"},
		{http.MethodDelete, "/api/employees/abc"},
		{http.MethodGet, "/api/employees/search?q=x"},
	} {
		w := s.do(httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestEmployeeCreateRules(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	// missing image
	w := s.multipart(http.MethodPost, "/api/employees", validEmployee("Jane"), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
	if b := decodeErrors(t, w); len(b.Errors) != 1 || b.Errors[0].Field != "image" || b.Errors[0].Msg != "Image is required" {
		t.Fatalf("body %s", w.Body.String())
	}

	// not an image
	w = s.multipart(http.MethodPost, "/api/employees", validEmployee("Jane"), []byte("plain text, not a picture"))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), `"field":"image"`) {
		t.Fatalf("non-image accepted: %d %s", w.Code, w.Body.String())
	}

	// every field rule is reported in order
	bad := map[string][]string{"email": {"nope"}, "mobile": {"123"}}
	w = s.multipart(http.MethodPost, "/api/employees", bad, pngBytes)
	b := decodeErrors(t, w)
	fields := make([]string, 0, len(b.Errors))
	for _, e := range b.Errors {
		fields = append(fields, e.Field)
	}
	if strings.Join(fields, ",") != "name,email,mobile,designation,gender,course" {
		t.Fatalf("fields = %v (%s)", fields, w.Body.String())
	}
	if b.Errors[2].Msg != "Mobile must be a valid 10-digit number" {
		t.Fatalf("mobile msg = %q", b.Errors[2].Msg)
	}

	// valid
	w = s.multipart(http.MethodPost, "/api/employees", validEmployee("Jane"), pngBytes)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var e employeeJSON
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	if e.ID == "" || e.Status != "active" || !strings.HasPrefix(e.Image, "uploads/") || len(e.Course) != 2 || e.CreateDate.IsZero() {
		t.Fatalf("created = %+v", e)
	}

	// the stored image is served back
	img := s.do(httptest.NewRequest(http.MethodGet, "/"+e.Image, nil))
	if img.Code != http.StatusOK || !bytes.Equal(img.Body.Bytes(), pngBytes) {
		t.Fatalf("image fetch: %d", img.Code)
	}
}

func TestEmployeePaginationTraversal(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	const n = 12
	for i := 0; i < n; i++ {
		w := s.multipart(http.MethodPost, "/api/employees", validEmployee(fmt.Sprintf("Emp%02d", i)), pngBytes)
		if w.Code != http.StatusCreated {
			t.Fatalf("create %d: %d", i, w.Code)
		}
	}

	seen := map[string]bool{}
	var order []string
	for page := 1; ; page++ {
		w := s.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/employees?page=%d", page), nil))
		if w.Code != http.StatusOK {
			t.Fatalf("list: %d", w.Code)
		}
		var out struct {
			Employees   []employeeJSON `json:"employees"`
			TotalPages  int            `json:"totalPages"`
			CurrentPage int            `json:"currentPage"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		if out.TotalPages != 3 || out.CurrentPage != page {
			t.Fatalf("page %d: totalPages=%d currentPage=%d", page, out.TotalPages, out.CurrentPage)
		}
		for _, e := range out.Employees {
			if seen[e.ID] {
				t.Fatalf("employee %s listed twice", e.ID)
			}
			seen[e.ID] = true
			order = append(order, e.Name)
		}
		if page == out.TotalPages {
			break
		}
	}
	if len(seen) != n {
		t.Fatalf("saw %d employees, want %d", len(seen), n)
	}
	if order[0] != "Emp00" || order[n-1] != "Emp11" {
		t.Fatalf("not in creation order: %v", order)
	}

	// bad query values fall back to defaults
	w := s.do(httptest.NewRequest(http.MethodGet, "/api/employees?page=abc&limit=-4", nil))
	if !strings.Contains(w.Body.String(), `"currentPage":1`) || !strings.Contains(w.Body.String(), `"totalPages":3`) {
		t.Fatalf("defaults not applied: %s", w.Body.String())
	}
}

func TestEmployeeUpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.multipart(http.MethodPost, "/api/employees", validEmployee("Jane"), pngBytes)
	var created employeeJSON
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	path := "/api/employees/" + created.ID

	// course as a JSON-encoded string, status change, no new image
	w = s.multipart(http.MethodPut, path, map[string][]string{
		"name":   {"Jane Doe"},
		"course": {`["BSC"]`},
		"status": {"inactive"},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var updated employeeJSON
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Name != "Jane Doe" || updated.Status != "inactive" || len(updated.Course) != 1 || updated.Course[0] != "BSC" {
		t.Fatalf("updated = %+v", updated)
	}
	if updated.Image != created.Image || updated.Mobile != created.Mobile || !updated.CreateDate.Equal(created.CreateDate) {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	// JSON body works too
	w = s.json(http.MethodPut, path, map[string]any{"course": []string{"MCA"}, "mobile": "1112223334"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"mobile":"1112223334"`) {
		t.Fatalf("json update: %d %s", w.Code, w.Body.String())
	}

	// supplied but blank, or invalid status
	w = s.json(http.MethodPut, path, map[string]any{"name": "  ", "status": "retired"})
	b := decodeErrors(t, w)
	if w.Code != http.StatusBadRequest || len(b.Errors) != 2 || b.Errors[0].Msg != "Name is required" || b.Errors[1].Field != "status" {
		t.Fatalf("blank update: %d %s", w.Code, w.Body.String())
	}

	// new image replaces the old one
	w = s.multipart(http.MethodPut, path, map[string][]string{}, pngBytes)
	var withImage employeeJSON
	_ = json.Unmarshal(w.Body.Bytes(), &withImage)
	if w.Code != http.StatusOK || withImage.Image == created.Image {
		t.Fatalf("image not replaced: %d %s", w.Code, w.Body.String())
	}
	if old := s.do(httptest.NewRequest(http.MethodGet, "/"+created.Image, nil)); old.Code != http.StatusNotFound {
		t.Fatalf("old image still served: %d", old.Code)
	}

	// unknown and malformed ids
	for _, id := range []string{"00000000-0000-0000-0000-000000000000", "not-an-id"} {
		w = s.json(http.MethodPut, "/api/employees/"+id, map[string]any{"name": "x"})
		if w.Code != http.StatusNotFound {
			t.Fatalf("update %s: %d", id, w.Code)
		}
	}

	w = s.do(httptest.NewRequest(http.MethodDelete, path, nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Employee deleted successfully") {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	w = s.do(httptest.NewRequest(http.MethodDelete, path, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", w.Code)
	}
	list := s.do(httptest.NewRequest(http.MethodGet, "/api/employees", nil))
	if strings.Contains(list.Body.String(), created.ID) {
		t.Fatalf("deleted employee still listed")
	}
}

func TestSearchWithoutIndexIsEmpty(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/api/employees/search?q=jane", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"employees":[]}` {
		t.Fatalf("search: %d %s", w.Code, w.Body.String())
	}
}

func TestSystemRoutes(t *testing.T) {
	s := newTestServer(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"storage":true`) {
		t.Fatalf("healthz: %d %s", w.Code, w.Body.String())
	}
	w = s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("metrics: %d", w.Code)
	}
}
