package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	repo "github.com/oksasatya/employee-management-api/internal/domain/repository"
	"github.com/oksasatya/employee-management-api/pkg/mailer"
	mailtpl "github.com/oksasatya/employee-management-api/pkg/mailer/templates"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type TokenIssuer interface {
	Issue(userID, name string, ttl time.Duration) (string, time.Time, error)
}

// JobPublisher puts a message on the mail queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type AuthService struct {
	Users    repo.UserRepository
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	TokenTTL time.Duration
	Logger   *logrus.Logger

	// Optional welcome mail
	Mail     JobPublisher
	AppName  string
	LoginURL string
}

func NewAuthService(users repo.UserRepository, hasher PasswordHasher, tokens TokenIssuer, ttl time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Hasher: hasher, Tokens: tokens, TokenTTL: ttl, Logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a user and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	email := entity.NormalizeEmail(in.Email)

	_, err := s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return "", ErrEmailTaken
	case !errors.Is(err, repo.ErrNotFound):
		return "", fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Name: in.Name, Email: email, PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	token, _, err := s.Tokens.Issue(u.ID, "", s.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	s.sendWelcome(ctx, u)
	return token, nil
}

func (s *AuthService) sendWelcome(ctx context.Context, u *entity.User) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.WelcomeData(s.AppName, u.Name, u.Email, s.LoginURL),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("publish welcome email failed")
	}
}

type LoginResult struct {
	Token string
	User  *entity.User
}

// Login checks the credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.Hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	token, _, err := s.Tokens.Issue(u.ID, u.Name, s.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, User: u}, nil
}

// Me returns the user behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
