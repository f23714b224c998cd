package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playpulse/playpulse-backend/internal/api/http/respond"
	"github.com/playpulse/playpulse-backend/internal/auth"
)

func (h *Handler) create(c *gin.Context) {
	var body createProjectReq
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.BadBody(c)
		return
	}
	req, err := body.toDomain()
	if err != nil {
		respond.Error(c, "create_project", err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), auth.Actor(c), req)
	if err != nil {
		respond.Error(c, "create_project", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.Actor(c))
	if err != nil {
		respond.Error(c, "list_projects", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), auth.Actor(c), c.Param("id"))
	if err != nil {
		respond.Error(c, "get_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handler) update(c *gin.Context) {
	var body updateProjectReq
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.BadBody(c)
		return
	}
	req, err := body.toDomain()
	if err != nil {
		respond.Error(c, "update_project", err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), auth.Actor(c), c.Param("id"), req)
	if err != nil {
		respond.Error(c, "update_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.Actor(c), c.Param("id")); err != nil {
		respond.Error(c, "delete_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

func (h *Handler) updates(c *gin.Context) {
	items, err := h.svc.ListUpdates(c.Request.Context(), auth.Actor(c), c.Param("id"))
	if err != nil {
		respond.Error(c, "list_project_updates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updates": items})
}

func (h *Handler) adminList(c *gin.Context) {
	items, err := h.svc.AdminList(c.Request.Context(), auth.Actor(c))
	if err != nil {
		respond.Error(c, "admin_list_projects", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": items})
}

func (h *Handler) adminDelete(c *gin.Context) {
	if err := h.svc.AdminDelete(c.Request.Context(), auth.Actor(c), c.Param("id")); err != nil {
		respond.Error(c, "admin_delete_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
