package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playpulse/playpulse-backend/internal/api/http/respond"
)

func (h *Handler) publicProject(c *gin.Context) {
	out, err := h.public.ListPublished(c.Request.Context(), c.Param("gameSlug"))
	if err != nil {
		respond.Error(c, "public_project_updates", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// publicUpdate serves /updates/:gameSlug/:versionSlug. The second segment may also be a version id.
func (h *Handler) publicUpdate(c *gin.Context) {
	out, err := h.public.Resolve(c.Request.Context(), c.Param("gameSlug"), c.Param("versionSlug"))
	if err != nil {
		respond.Error(c, "public_update", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
