package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playpulse/playpulse-backend/internal/api/http/respond"
	"github.com/playpulse/playpulse-backend/internal/auth"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

func (h *Handler) listSections(c *gin.Context) {
	items, err := h.sections.List(c.Request.Context(), auth.Actor(c), c.Param("id"), c.Param("versionId"))
	if err != nil {
		respond.Error(c, "list_sections", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": items})
}

func (h *Handler) createSection(c *gin.Context) {
	var req createSectionReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadBody(c)
			return
		}
	}

	s, err := h.sections.Create(c.Request.Context(), auth.Actor(c), c.Param("id"), c.Param("versionId"), req.toDomain())
	if err != nil {
		respond.Error(c, "create_section", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"section": s})
}

func (h *Handler) updateSection(c *gin.Context) {
	var req updateSectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadBody(c)
		return
	}

	s, err := h.sections.Update(c.Request.Context(), auth.Actor(c), c.Param("id"), c.Param("versionId"), c.Param("sectionId"), req.toDomain())
	if err != nil {
		respond.Error(c, "update_section", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": s})
}

func (h *Handler) deleteSection(c *gin.Context) {
	err := h.sections.Delete(c.Request.Context(), auth.Actor(c), c.Param("id"), c.Param("versionId"), c.Param("sectionId"))
	if err != nil {
		respond.Error(c, "delete_section", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "section deleted"})
}

func (h *Handler) createBlock(c *gin.Context) {
	var req createBlockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadBody(c)
		return
	}

	b, err := h.sections.CreateBlock(c.Request.Context(), auth.Actor(c),
		c.Param("id"), c.Param("versionId"), c.Param("sectionId"),
		domain.CreateBlockRequest{Type: req.Type, Order: req.Order, Data: req.Data})
	if err != nil {
		respond.Error(c, "create_block", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"block": b})
}

func (h *Handler) updateBlock(c *gin.Context) {
	var req updateBlockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadBody(c)
		return
	}

	b, err := h.sections.UpdateBlock(c.Request.Context(), auth.Actor(c),
		c.Param("id"), c.Param("versionId"), c.Param("sectionId"), c.Param("blockId"),
		domain.UpdateBlockRequest{Type: req.Type, Order: req.Order, Data: req.Data})
	if err != nil {
		respond.Error(c, "update_block", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"block": b})
}

func (h *Handler) deleteBlock(c *gin.Context) {
	err := h.sections.DeleteBlock(c.Request.Context(), auth.Actor(c),
		c.Param("id"), c.Param("versionId"), c.Param("sectionId"), c.Param("blockId"))
	if err != nil {
		respond.Error(c, "delete_block", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "block deleted"})
}
