package http

import "github.com/playpulse/playpulse-backend/internal/versions/service"

// Handler bundles the dependencies for version, page, section and public update endpoints.
type Handler struct {
	versions *service.VersionService
	pages    *service.PageService
	sections *service.SectionService
	backfill *service.BackfillService
	public   *service.PublicService
}

func New(
	versions *service.VersionService,
	pages *service.PageService,
	sections *service.SectionService,
	backfill *service.BackfillService,
	public *service.PublicService,
) *Handler {
	return &Handler{
		versions: versions,
		pages:    pages,
		sections: sections,
		backfill: backfill,
		public:   public,
	}
}
