package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playpulse/playpulse-backend/internal/api/http/respond"
	"github.com/playpulse/playpulse-backend/internal/auth"
)

func (h *Handler) getPage(c *gin.Context) {
	p, err := h.pages.GetPage(c.Request.Context(), auth.Actor(c), c.Param("id"), c.Param("versionId"))
	if err != nil {
		respond.Error(c, "get_page", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": p})
}

// savePage accepts an empty body as "save defaults".
func (h *Handler) savePage(c *gin.Context) {
	var req savePageReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadBody(c)
			return
		}
	}

	p, err := h.pages.SavePage(c.Request.Context(), auth.Actor(c), c.Param("id"), c.Param("versionId"), req.Content, req.Settings)
	if err != nil {
		respond.Error(c, "save_page", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": p})
}
