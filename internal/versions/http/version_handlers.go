package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playpulse/playpulse-backend/internal/api/http/respond"
	"github.com/playpulse/playpulse-backend/internal/auth"
)

func (h *Handler) listVersions(c *gin.Context) {
	items, err := h.versions.List(c.Request.Context(), auth.Actor(c), c.Param("id"))
	if err != nil {
		respond.Error(c, "list_versions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": items})
}

func (h *Handler) createVersion(c *gin.Context) {
	var req createVersionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadBody(c)
		return
	}

	v, err := h.versions.Create(c.Request.Context(), auth.Actor(c), c.Param("id"), req.toDomain())
	if err != nil {
		respond.Error(c, "create_version", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"version": v})
}

func (h *Handler) getVersion(c *gin.Context) {
	v, err := h.versions.Get(c.Request.Context(), auth.Actor(c), c.Param("id"), c.Param("versionId"))
	if err != nil {
		respond.Error(c, "get_version", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": v})
}

func (h *Handler) updateVersion(c *gin.Context) {
	var req updateVersionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadBody(c)
		return
	}

	v, err := h.versions.Update(c.Request.Context(), auth.Actor(c), c.Param("id"), c.Param("versionId"), req.toDomain())
	if err != nil {
		respond.Error(c, "update_version", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": v})
}

func (h *Handler) publishVersion(c *gin.Context) {
	v, err := h.versions.Publish(c.Request.Context(), auth.Actor(c), c.Param("id"), c.Param("versionId"))
	if err != nil {
		respond.Error(c, "publish_version", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": v})
}

func (h *Handler) deleteVersion(c *gin.Context) {
	if err := h.versions.Delete(c.Request.Context(), auth.Actor(c), c.Param("id"), c.Param("versionId")); err != nil {
		respond.Error(c, "delete_version", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "version deleted"})
}

func (h *Handler) cards(c *gin.Context) {
	items, err := h.versions.Cards(c.Request.Context(), auth.Actor(c), c.Param("id"))
	if err != nil {
		respond.Error(c, "list_change_cards", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": items})
}

func (h *Handler) backfillSlugs(c *gin.Context) {
	results, err := h.backfill.Run(c.Request.Context(), auth.Actor(c))
	if err != nil {
		respond.Error(c, "backfill_version_slugs", err)
		return
	}

	msg := "no versions needed a slug"
	if len(results) > 0 {
		msg = "version slugs backfilled"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": msg,
		"updated": len(results),
		"results": results,
	})
}
