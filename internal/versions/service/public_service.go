package service

import (
	"context"
	"errors"

	projectdomain "github.com/playpulse/playpulse-backend/internal/projects/domain"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

// PublicService serves published versions of non-private projects without authentication.
type PublicService struct {
	projects ProjectAuthorizer
	versions VersionStore
	pages    PageStore
	sections SectionStore
	cache    PublicCache
}

func NewPublicService(projects ProjectAuthorizer, versions VersionStore, pages PageStore, sections SectionStore, cache PublicCache) *PublicService {
	if cache == nil {
		cache = NoopCache
	}
	return &PublicService{
		projects: projects,
		versions: versions,
		pages:    pages,
		sections: sections,
		cache:    cache,
	}
}

// Resolve loads the public update page for projectSlug and versionRef. versionRef is tried as a
// slug first and then as a raw version id, so links issued before slugs existed keep working.
func (s *PublicService) Resolve(ctx context.Context, projectSlug, versionRef string) (*domain.PublicUpdate, error) {
	if u, ok := s.cache.Get(ctx, projectSlug, versionRef); ok {
		return u, nil
	}

	p, err := s.projects.GetPublic(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	v, err := s.resolveVersion(ctx, p.ID, versionRef)
	if err != nil {
		return nil, err
	}

	page, err := s.pages.Get(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		page = domain.EmptyPage(v.ID)
	}

	sections, err := s.sections.ListByVersion(ctx, v.ID)
	if err != nil {
		return nil, err
	}

	u := &domain.PublicUpdate{
		Project:  publicProject(p),
		Version:  *v,
		Page:     *page,
		Sections: sections,
	}
	s.cache.Set(ctx, projectSlug, versionRef, u)
	return u, nil
}

// resolveVersion is the single slug-then-id lookup. Drafts read as not found.
func (s *PublicService) resolveVersion(ctx context.Context, projectID, ref string) (*domain.Version, error) {
	v, err := s.versions.GetBySlug(ctx, projectID, ref)
	if errors.Is(err, domain.ErrVersionNotFound) {
		v, err = s.versions.Get(ctx, projectID, ref)
	}
	if err != nil {
		return nil, err
	}
	if !v.IsPublished {
		return nil, domain.ErrVersionNotFound
	}
	return v, nil
}

// ListPublished returns the published versions of a public or unlisted project, newest first.
func (s *PublicService) ListPublished(ctx context.Context, projectSlug string) (*domain.PublicProjectUpdates, error) {
	p, err := s.projects.GetPublic(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	all, err := s.versions.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	published := make([]domain.Version, 0, len(all))
	for _, v := range all {
		if v.IsPublished {
			published = append(published, v)
		}
	}

	return &domain.PublicProjectUpdates{Project: publicProject(p), Versions: published}, nil
}

func publicProject(p *projectdomain.Project) domain.PublicProject {
	var slug string
	if p.Slug != nil {
		slug = *p.Slug
	}
	return domain.PublicProject{Name: p.Name, Slug: slug, Description: p.Description}
}
