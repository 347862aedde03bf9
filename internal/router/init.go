package router

import (
	"github.com/oksasatya/employee-management-api/internal/container"
	handlers "github.com/oksasatya/employee-management-api/internal/interface/http"
	"github.com/oksasatya/employee-management-api/internal/interface/middleware"
	"github.com/oksasatya/employee-management-api/internal/router/modules"
)

// InitModules builds every feature module from the container and adds it to the registry.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	auth := middleware.Auth(c.Tokens)

	var allow middleware.AllowFunc
	if c.Config.RateLimitTrustPrivate {
		allow = middleware.AllowPrivateIP()
	}
	rdb := c.Redis
	if !c.Config.RateLimitEnabled {
		rdb = nil
	}

	authHandler := handlers.NewAuthHandler(c.AuthService(), c.Logger)
	r.Add(modules.NewAuthModule(authHandler, auth, rdb, allow))

	employeeHandler := handlers.NewEmployeeHandler(c.EmployeeService(), c.Logger, c.Config.MaxUploadBytes)
	r.Add(modules.NewEmployeeModule(employeeHandler, auth))
}
