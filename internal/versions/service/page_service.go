package service

import (
	"bytes"
	"context"
	"encoding/json"

	projectdomain "github.com/playpulse/playpulse-backend/internal/projects/domain"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

// PageService reads and upserts the single page attached to a version.
type PageService struct {
	scope
	pages PageStore
	cache PublicCache
}

func NewPageService(projects ProjectAuthorizer, versions VersionStore, pages PageStore, cache PublicCache) *PageService {
	if cache == nil {
		cache = NoopCache
	}
	return &PageService{
		scope: scope{projects: projects, versions: versions},
		pages: pages,
		cache: cache,
	}
}

// GetPage returns the saved page, or the canonical empty page when nothing was saved yet.
func (s *PageService) GetPage(ctx context.Context, actor projectdomain.Actor, projectID, versionID string) (*domain.Page, error) {
	if _, err := s.version(ctx, actor, projectID, versionID); err != nil {
		return nil, err
	}
	return s.load(ctx, versionID)
}

func (s *PageService) load(ctx context.Context, versionID string) (*domain.Page, error) {
	p, err := s.pages.Get(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return domain.EmptyPage(versionID), nil
	}
	return p, nil
}

// SavePage replaces content and settings wholesale. Omitted fields are stored as their empty
// defaults, not merged with what was there before.
func (s *PageService) SavePage(ctx context.Context, actor projectdomain.Actor, projectID, versionID string, content, settings json.RawMessage) (*domain.Page, error) {
	if !actor.Authenticated() {
		return nil, projectdomain.ErrUnauthenticated
	}

	if omitted(content) {
		content = domain.EmptyContent
	}
	if omitted(settings) {
		settings = domain.EmptySettings
	}
	verr := &projectdomain.ValidationError{}
	if err := domain.ValidateContent(content); err != nil {
		verr.Add("content", err.Error())
	}
	if err := domain.ValidateSettings(settings); err != nil {
		verr.Add("settings", err.Error())
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.version(ctx, actor, projectID, versionID); err != nil {
		return nil, err
	}

	p := &domain.Page{VersionID: versionID, Content: content, Settings: settings}
	if err := s.pages.Upsert(ctx, p); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, versionID)
	return p, nil
}

func omitted(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
