package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playpulse/playpulse-backend/internal/auth"
)

// Register attaches the identity endpoints to an authenticated group.
func Register(rg *gin.RouterGroup) {
	rg.GET("/me", me)
}

// me returns who the request is authenticated as.
func me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":          auth.UserDBID(c),
		"firebaseUid": auth.UserFirebaseUID(c),
		"role":        c.GetString(auth.CtxUserRole),
	}})
}
