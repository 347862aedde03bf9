package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/employee-management-api/config"
	"github.com/oksasatya/employee-management-api/internal/container"
	"github.com/oksasatya/employee-management-api/internal/interface/middleware"
)

// RegisterSystem mounts the routes that live outside /api: health, metrics and uploaded images.
func RegisterSystem(engine *gin.Engine, c *container.Container, metrics *middleware.Metrics) {
	engine.GET("/healthz", healthHandler(c.Health))
	if metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	if c.Config.ImageStore == config.ImageStoreLocal {
		engine.Static("/uploads", c.Config.UploadDir)
	}
}

func healthHandler(checks map[string]container.HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := gin.H{}
		for name, check := range checks {
			ok := check(ctx)
			body[name] = ok
			if !ok {
				status = http.StatusServiceUnavailable
			}
		}
		if status == http.StatusOK {
			body["status"] = "ok"
		} else {
			body["status"] = "degraded"
		}
		c.JSON(status, body)
	}
}
