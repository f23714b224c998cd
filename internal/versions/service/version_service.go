package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/playpulse/playpulse-backend/internal/logging"
	projectdomain "github.com/playpulse/playpulse-backend/internal/projects/domain"
	"github.com/playpulse/playpulse-backend/internal/slug"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

// maxSlugConflicts bounds how often a slug claim may lose a race before giving up.
const maxSlugConflicts = 5

// scope resolves the project -> version chain for owner-only operations.
type scope struct {
	projects ProjectAuthorizer
	versions VersionStore
}

func (s scope) version(ctx context.Context, actor projectdomain.Actor, projectID, versionID string) (*domain.Version, error) {
	if _, err := s.projects.Authorize(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.versions.Get(ctx, projectID, versionID)
}

// VersionService handles the version lifecycle: create, publish, edit and delete.
type VersionService struct {
	scope
	pages   PageStore
	release ReleaseLog
	cache   PublicCache
	now     func() time.Time
}

func NewVersionService(projects ProjectAuthorizer, versions VersionStore, pages PageStore, release ReleaseLog, cache PublicCache) *VersionService {
	if cache == nil {
		cache = NoopCache
	}
	return &VersionService{
		scope:   scope{projects: projects, versions: versions},
		pages:   pages,
		release: release,
		cache:   cache,
		now:     time.Now,
	}
}

// List returns a project's versions, newest first.
func (s *VersionService) List(ctx context.Context, actor projectdomain.Actor, projectID string) ([]domain.Version, error) {
	if _, err := s.projects.Authorize(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.versions.ListByProject(ctx, projectID)
}

func (s *VersionService) Get(ctx context.Context, actor projectdomain.Actor, projectID, versionID string) (*domain.Version, error) {
	return s.version(ctx, actor, projectID, versionID)
}

// Create stores a new DRAFT version (or PUBLISHED when requested) and appends a VERSION_RELEASE
// update. The two writes are not atomic: if the append fails the version stays and the error is
// returned to the caller.
func (s *VersionService) Create(ctx context.Context, actor projectdomain.Actor, projectID string, req domain.CreateVersionRequest) (*domain.Version, error) {
	if !actor.Authenticated() {
		return nil, projectdomain.ErrUnauthenticated
	}
	if err := validateCreate(req); err != nil {
		return nil, err
	}
	if _, err := s.projects.Authorize(ctx, actor, projectID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	v := &domain.Version{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Version:     strings.TrimSpace(req.Version),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsPublished {
		v.Publish(now)
	}

	if err := s.versions.Create(ctx, v); err != nil {
		return nil, err
	}

	u := &projectdomain.ProjectUpdate{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Type:        projectdomain.UpdateVersionRelease,
		Title:       domain.ReleaseTitle(v.Version),
		Description: v.Title,
		Metadata: map[string]interface{}{
			"versionId": v.ID,
			"version":   v.Version,
		},
		CreatedAt: now,
	}
	if err := s.release.Append(ctx, u); err != nil {
		logging.NewLogger(ctx).LogErrorf("append_version_release", "version=%s created without release entry: %v", v.ID, err)
		return nil, fmt.Errorf("version %s created but release log append failed: %w", v.ID, err)
	}

	return v, nil
}

// Publish moves a version to PUBLISHED. It is idempotent apart from refreshing PublishedAt and
// never appends to the release log.
func (s *VersionService) Publish(ctx context.Context, actor projectdomain.Actor, projectID, versionID string) (*domain.Version, error) {
	v, err := s.version(ctx, actor, projectID, versionID)
	if err != nil {
		return nil, err
	}

	if err := s.versions.Publish(ctx, projectID, v.ID, s.now().UTC()); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, v.ID)
	return s.versions.Get(ctx, projectID, v.ID)
}

// Update edits version fields. A requested slug is normalised and made unique within the project,
// excluding this version from the collision check.
func (s *VersionService) Update(ctx context.Context, actor projectdomain.Actor, projectID, versionID string, req domain.UpdateVersionRequest) (*domain.Version, error) {
	if !actor.Authenticated() {
		return nil, projectdomain.ErrUnauthenticated
	}
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	v, err := s.version(ctx, actor, projectID, versionID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil {
		v.Version = strings.TrimSpace(*req.Version)
	}
	if req.Title != nil {
		v.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		v.Description = strings.TrimSpace(*req.Description)
	}
	if req.ImageURL != nil {
		v.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	now := s.now().UTC()
	v.UpdatedAt = now

	// Only the editable fields are written here; publish state and slug have their own writes.
	if err := s.versions.Update(ctx, v); err != nil {
		return nil, err
	}

	if req.Slug != nil && slug.Make(*req.Slug) != "" {
		taken := func(c string) (bool, error) {
			return s.versions.SlugTaken(ctx, projectID, c, v.ID)
		}
		claim := func(c string) error {
			return s.versions.SetSlug(ctx, projectID, v.ID, c, now)
		}
		if _, err := claimSlug(slug.Make(*req.Slug), taken, claim); err != nil {
			return nil, err
		}
	}

	s.cache.Invalidate(ctx, v.ID)
	return s.versions.Get(ctx, projectID, v.ID)
}

// Delete removes a version and, through the store, its page, sections and blocks.
func (s *VersionService) Delete(ctx context.Context, actor projectdomain.Actor, projectID, versionID string) error {
	if _, err := s.version(ctx, actor, projectID, versionID); err != nil {
		return err
	}
	ok, err := s.versions.Delete(ctx, projectID, versionID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrVersionNotFound
	}
	s.cache.Invalidate(ctx, versionID)
	return nil
}

// Cards extracts the change-cards of every version of a project, newest version first.
func (s *VersionService) Cards(ctx context.Context, actor projectdomain.Actor, projectID string) ([]domain.VersionCards, error) {
	versions, err := s.List(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(versions))
	for _, v := range versions {
		ids = append(ids, v.ID)
	}
	contents, err := s.pages.ListContents(ctx, ids)
	if err != nil {
		return nil, err
	}

	return domain.ExtractCards(versions, contents), nil
}

// claimSlug walks base, base-1, base-2, ... skipping candidates taken reports as used, and calls
// claim on the first free one. A claim rejected with ErrSlugTaken (a concurrent writer won) moves
// on to the next candidate.
func claimSlug(base string, taken func(string) (bool, error), claim func(string) error) (string, error) {
	n := 0
	for conflicts := 0; conflicts <= maxSlugConflicts; {
		candidate := slug.Candidate(base, n)
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if used {
			n++
			continue
		}

		err = claim(candidate)
		if errors.Is(err, domain.ErrSlugTaken) {
			conflicts++
			n++
			continue
		}
		if err != nil {
			return "", err
		}
		return candidate, nil
	}
	return "", fmt.Errorf("slug %q: gave up after %d conflicts: %w", base, maxSlugConflicts, domain.ErrSlugTaken)
}

func validateCreate(req domain.CreateVersionRequest) error {
	v := &projectdomain.ValidationError{}
	if strings.TrimSpace(req.Version) == "" {
		v.Add("version", "required")
	}
	if strings.TrimSpace(req.Title) == "" {
		v.Add("title", "required")
	}
	return v.OrNil()
}

func validateUpdate(req domain.UpdateVersionRequest) error {
	v := &projectdomain.ValidationError{}
	if req.Version != nil && strings.TrimSpace(*req.Version) == "" {
		v.Add("version", "must not be empty")
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		v.Add("title", "must not be empty")
	}
	return v.OrNil()
}
