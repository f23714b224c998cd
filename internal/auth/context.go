package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	projectdomain "github.com/playpulse/playpulse-backend/internal/projects/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxUserDBID    = "user_db_id"
	CtxUserRole    = "user_role"
)

// UserFirebaseUID extracts the external identity set by FirebaseAuthMiddleware or HeaderIdentity.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// UserDBID is the local user id set by WithUser, empty for anonymous requests.
func UserDBID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserDBID))
}

// Actor is the caller of the current request as the services see it.
func Actor(c *gin.Context) projectdomain.Actor {
	return projectdomain.Actor{
		UserID: UserDBID(c),
		Role:   c.GetString(CtxUserRole),
	}
}
