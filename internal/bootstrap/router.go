package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/playpulse/playpulse-backend/internal/api/http"
	"github.com/playpulse/playpulse-backend/internal/api/http/middleware"
	"github.com/playpulse/playpulse-backend/internal/auth"
	authhttp "github.com/playpulse/playpulse-backend/internal/auth/http"
	authmw "github.com/playpulse/playpulse-backend/internal/auth/middleware"
	projecthttp "github.com/playpulse/playpulse-backend/internal/projects/http"
	versionhttp "github.com/playpulse/playpulse-backend/internal/versions/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string

	Stores   *Stores
	Services *Services
	Redis    *redis.Client

	// Verifier checks Firebase ID tokens. When nil the X-User-Id header is trusted instead.
	Verifier authmw.TokenVerifier
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Stores.Pool, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	if dep.Verifier != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.Verifier))
	} else {
		api.Use(auth.HeaderIdentity())
	}
	api.Use(auth.WithUser(dep.Stores.Users))

	svc := dep.Services
	projectsHandler := projecthttp.New(svc.Projects)
	versionsHandler := versionhttp.New(svc.Versions, svc.Pages, svc.Sections, svc.Backfill, svc.Public)

	versionsHandler.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(auth.RequireUser())
	authhttp.Register(authed)

	projectsGroup := authed.Group("/projects")
	projectsHandler.Register(projectsGroup)
	versionsHandler.RegisterProjectRoutes(projectsGroup.Group("/:id"))

	admin := authed.Group("/admin")
	projectsHandler.RegisterAdmin(admin)
	versionsHandler.RegisterAdminRoutes(admin)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-Id", "X-User-Email", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
