package http

import "github.com/gin-gonic/gin"

// RegisterProjectRoutes attaches version routes under an authenticated /projects/:id group.
func (h *Handler) RegisterProjectRoutes(project *gin.RouterGroup) {
	v := project.Group("/versions")
	v.GET("", h.listVersions)
	v.POST("", h.createVersion)
	v.GET("/cards", h.cards)

	one := v.Group("/:versionId")
	one.GET("", h.getVersion)
	one.PATCH("", h.updateVersion)
	one.DELETE("", h.deleteVersion)
	one.POST("/publish", h.publishVersion)
	one.GET("/page", h.getPage)
	one.PUT("/page", h.savePage)

	one.GET("/sections", h.listSections)
	one.POST("/sections", h.createSection)
	one.PATCH("/sections/:sectionId", h.updateSection)
	one.DELETE("/sections/:sectionId", h.deleteSection)
	one.POST("/sections/:sectionId/blocks", h.createBlock)
	one.PATCH("/sections/:sectionId/blocks/:blockId", h.updateBlock)
	one.DELETE("/sections/:sectionId/blocks/:blockId", h.deleteBlock)
}

// RegisterAdminRoutes attaches maintenance routes under an authenticated /admin group.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/backfill-version-slugs", h.backfillSlugs)
}

// RegisterPublicRoutes attaches the unauthenticated update pages.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/updates/:gameSlug", h.publicProject)
	rg.GET("/updates/:gameSlug/:versionSlug", h.publicUpdate)
}
