package bootstrap

import (
	"time"

	"github.com/redis/go-redis/v9"

	projectservice "github.com/playpulse/playpulse-backend/internal/projects/service"
	"github.com/playpulse/playpulse-backend/internal/versions/cache"
	versionservice "github.com/playpulse/playpulse-backend/internal/versions/service"
)

type Services struct {
	Projects *projectservice.ProjectService
	Versions *versionservice.VersionService
	Pages    *versionservice.PageService
	Sections *versionservice.SectionService
	Backfill *versionservice.BackfillService
	Public   *versionservice.PublicService
}

// NewServices wires the services over st. A nil rdb turns public page caching off.
func NewServices(st *Stores, rdb *redis.Client, publicTTL time.Duration) *Services {
	pc := versionservice.NoopCache
	if rdb != nil {
		pc = cache.NewPublicCache(rdb, publicTTL)
	}

	projects := projectservice.NewProjectService(st.Projects, st.Updates)
	return &Services{
		Projects: projects,
		Versions: versionservice.NewVersionService(projects, st.Versions, st.Pages, st.Updates, pc),
		Pages:    versionservice.NewPageService(projects, st.Versions, st.Pages, pc),
		Sections: versionservice.NewSectionService(projects, st.Versions, st.Sections, pc),
		Backfill: versionservice.NewBackfillService(st.Backfill, pc),
		Public:   versionservice.NewPublicService(projects, st.Versions, st.Pages, st.Sections, pc),
	}
}
