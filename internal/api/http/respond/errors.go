// Package respond maps service errors onto the HTTP status conventions shared by every handler.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playpulse/playpulse-backend/internal/logging"
	projectdomain "github.com/playpulse/playpulse-backend/internal/projects/domain"
	versiondomain "github.com/playpulse/playpulse-backend/internal/versions/domain"
)

// Error writes err as a JSON error response. Unexpected errors are logged and answered with a
// generic message; nothing internal reaches the client.
func Error(c *gin.Context, operation string, err error) {
	var verr *projectdomain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": verr.Fields})
	case errors.Is(err, projectdomain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
	case errors.Is(err, projectdomain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, projectdomain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, versiondomain.ErrVersionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "version not found"})
	case errors.Is(err, versiondomain.ErrSectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
	case errors.Is(err, versiondomain.ErrBlockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "block not found"})
	case errors.Is(err, versiondomain.ErrSlugTaken), errors.Is(err, projectdomain.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "slug already taken, retry"})
	default:
		logging.NewLogger(c.Request.Context()).LogError(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// BadBody answers a request whose JSON body could not be decoded.
func BadBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
}
