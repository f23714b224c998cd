package http

import (
	"github.com/gin-gonic/gin"

	"github.com/playpulse/playpulse-backend/internal/projects/service"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches project routes to an authenticated /projects group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/updates", h.updates)
}

// RegisterAdmin attaches moderation routes to an authenticated /admin group.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/projects", h.adminList)
	rg.DELETE("/projects/:id", h.adminDelete)
}
