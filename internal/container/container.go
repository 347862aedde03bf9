package container

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/config"
	"github.com/oksasatya/employee-management-api/internal/application"
	"github.com/oksasatya/employee-management-api/internal/domain/repository"
	"github.com/oksasatya/employee-management-api/pkg/helpers"
)

// HealthCheck reports whether one backend is reachable.
type HealthCheck func(ctx context.Context) bool

// Container holds the components built in main and handed to the router.
// Optional parts (Redis, Index, Mail) are nil when not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Users     repository.UserRepository
	Employees repository.EmployeeRepository
	Images    application.ImageStore
	Index     application.EmployeeIndexer
	Mail      application.JobPublisher
	Redis     *redis.Client

	Tokens *helpers.TokenService
	Hasher *helpers.PasswordHasher

	// Health checks by backend name, reported on /healthz
	Health map[string]HealthCheck
}

// New fills the components every deployment needs from cfg.
func New(cfg *config.Config, logger *logrus.Logger) *Container {
	return &Container{
		Config: cfg,
		Logger: logger,
		Tokens: helpers.NewTokenService(cfg.JWTSecret),
		Hasher: helpers.NewPasswordHasher(cfg.BcryptCost),
		Health: map[string]HealthCheck{},
	}
}

func (c *Container) AuthService() *application.AuthService {
	svc := application.NewAuthService(c.Users, c.Hasher, c.Tokens, c.Config.JWTTTL, c.Logger)
	if c.Mail != nil {
		svc.Mail = c.Mail
		svc.AppName = c.Config.AppName
		svc.LoginURL = c.Config.LoginURL
	}
	return svc
}

func (c *Container) EmployeeService() *application.EmployeeService {
	return application.NewEmployeeService(c.Employees, c.Images, c.Index, c.Logger, c.Config.PageSizeDefault, c.Config.PageSizeMax)
}
