package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/playpulse/playpulse-backend/internal/logging"
	"github.com/playpulse/playpulse-backend/internal/users"
)

// UserEnsurer creates or refreshes the local user row behind an identity.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, u users.UpsertUser) (*users.User, error)
}

// HeaderIdentity takes the caller's identity from X-User-Id. It is used when no identity
// provider is configured (local development and tests).
func HeaderIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader("X-User-Id")); uid != "" {
			c.Set(CtxFirebaseUID, uid)
			if email := strings.TrimSpace(c.GetHeader("X-User-Email")); email != "" {
				c.Set(CtxEmail, email)
			}
		}
		c.Next()
	}
}

// WithUser maps the identity on the request to a local user and loads its role. Requests
// without an identity pass through anonymously; RequireUser rejects them where needed.
func WithUser(userRepo UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuid := UserFirebaseUID(c)
		if fuid == "" {
			c.Next()
			return
		}

		u, err := userRepo.EnsureUser(c.Request.Context(), users.UpsertUser{
			FirebaseUID: fuid,
			Email:       c.GetString(CtxEmail),
			DisplayName: c.GetHeader("X-User-Name"),
			PhotoURL:    c.GetHeader("X-User-Photo"),
		})
		if err != nil {
			logging.NewLogger(c.Request.Context()).LogError("ensure_user", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			c.Abort()
			return
		}

		role := u.Role
		if role == "" {
			role = users.RoleUser
		}
		c.Set(CtxUserDBID, u.ID)
		c.Set(CtxUserRole, role)
		c.Next()
	}
}

// RequireUser rejects anonymous requests with 401.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserDBID(c) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}
		c.Next()
	}
}
