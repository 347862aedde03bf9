package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/employee-management-api/internal/interface/http"
)

type EmployeeModule struct {
	Handler *handlers.EmployeeHandler
	Auth    gin.HandlerFunc
}

func NewEmployeeModule(h *handlers.EmployeeHandler, auth gin.HandlerFunc) *EmployeeModule {
	return &EmployeeModule{Handler: h, Auth: auth}
}

// Register mounts the employee routes. Every one of them requires a bearer token.
func (m *EmployeeModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/employees", m.Auth)
	g.GET("", m.Handler.List)
	g.GET("/search", m.Handler.Search)
	g.POST("", m.Handler.Create)
	g.PUT("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
