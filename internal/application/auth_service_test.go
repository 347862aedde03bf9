package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/employee-management-api/internal/infrastructure/memory"
	"github.com/oksasatya/employee-management-api/pkg/helpers"
	"github.com/oksasatya/employee-management-api/pkg/mailer"
)

type capturePublisher struct {
	jobs []any
	err  error
}

func (p *capturePublisher) PublishJSON(_ context.Context, body any) error {
	p.jobs = append(p.jobs, body)
	return p.err
}

func newAuthService(t *testing.T) (*AuthService, *memory.UserRepository, *helpers.TokenService) {
	t.Helper()
	users := memory.NewUserRepository()
	tokens := helpers.NewTokenService("test-secret")
	svc := NewAuthService(users, helpers.NewPasswordHasher(bcrypt.MinCost), tokens, time.Hour, helpers.NewDiscardLogger())
	return svc, users, tokens
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, tokens := newAuthService(t)
	ctx := context.Background()

	token, err := svc.Register(ctx, RegisterInput{Name: "Ann", Email: " Ann@X.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	claims, err := tokens.Verify(token)
	if err != nil || claims.UserID == "" {
		t.Fatalf("register token invalid: %v", err)
	}

	res, err := svc.Login(ctx, "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.User.Name != "Ann" || res.User.Email != "ann@x.com" {
		t.Fatalf("unexpected user %+v", res.User)
	}
	claims, err = tokens.Verify(res.Token)
	if err != nil || claims.Name != "Ann" || claims.UserID != res.User.ID {
		t.Fatalf("login claims = %+v, %v", claims, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterInput{Name: "B", Email: "A@X.COM", Password: "secret2"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	u, err := users.GetByEmail(ctx, "a@x.com")
	if err != nil || u.Name != "A" {
		t.Fatalf("original user changed: %+v, %v", u, err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPw := svc.Login(ctx, "a@x.com", "nope")
	_, unknown := svc.Login(ctx, "b@x.com", "secret1")
	if !errors.Is(wrongPw, ErrInvalidCredentials) || !errors.Is(unknown, ErrInvalidCredentials) {
		t.Fatalf("got %v and %v", wrongPw, unknown)
	}
	if wrongPw.Error() != unknown.Error() {
		t.Fatalf("errors differ: %q vs %q", wrongPw, unknown)
	}
}

func TestRegisterPublishesWelcome(t *testing.T) {
	svc, _, _ := newAuthService(t)
	pub := &capturePublisher{err: errors.New("broker down")}
	svc.Mail = pub
	svc.AppName = "HR"

	// publish failure must not fail registration
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(pub.jobs) != 1 {
		t.Fatalf("published %d jobs", len(pub.jobs))
	}
	job, ok := pub.jobs[0].(mailer.EmailJob)
	if !ok || job.To != "a@x.com" || job.Template != "welcome" {
		t.Fatalf("unexpected job %#v", pub.jobs[0])
	}
}

func TestMeUnknownUser(t *testing.T) {
	svc, _, _ := newAuthService(t)
	if _, err := svc.Me(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
