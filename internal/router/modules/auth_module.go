package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/employee-management-api/internal/interface/http"
	"github.com/oksasatya/employee-management-api/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client // nil disables rate limiting
	Allow   middleware.AllowFunc
}

func NewAuthModule(h *handlers.AuthHandler, auth gin.HandlerFunc, rdb *redis.Client, allow middleware.AllowFunc) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth, Redis: rdb, Allow: allow}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), m.Allow)
	loginLimiter := middleware.RateLimit(m.Redis, 20, time.Minute, middleware.KeyByIPAndPath(), m.Allow)

	g := rg.Group("/auth")
	g.POST("/register", registerLimiter, m.Handler.Register)
	g.POST("/login", loginLimiter, m.Handler.Login)
	g.GET("/me", m.Auth, m.Handler.Me)
}
