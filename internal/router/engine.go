package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/employee-management-api/internal/container"
	"github.com/oksasatya/employee-management-api/internal/interface/middleware"
	"github.com/oksasatya/employee-management-api/pkg/validation"
)

// NewEngine builds the Gin engine with global middleware and every route mounted.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config
	validation.Init()

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes + 1<<20
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins())))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.LoggerWithConfig(gin.LoggerConfig{SkipPaths: []string{"/healthz", "/metrics"}}))
	}

	var metrics *middleware.Metrics
	if cfg.MetricsEnabled {
		metrics = middleware.NewMetrics()
		r.Use(metrics.Middleware())
	}

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	RegisterSystem(r, c, metrics)
	return r
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowOrigins = nil
		cc.AllowAllOrigins = true
		cc.AllowCredentials = false
	}
	return cc
}
