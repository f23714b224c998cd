package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/playpulse/playpulse-backend/internal/logging"
	"github.com/playpulse/playpulse-backend/internal/projects/domain"
	"github.com/playpulse/playpulse-backend/internal/slug"
)

// Store persists projects. Create and Update return domain.ErrSlugTaken on a slug collision.
type Store interface {
	Create(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, id string) (*domain.Project, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Project, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]domain.Project, error)
	ListAll(ctx context.Context) ([]domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) (bool, error)
}

// UpdateLog is the append-only project release log.
type UpdateLog interface {
	Append(ctx context.Context, u *domain.ProjectUpdate) error
	ListByProject(ctx context.Context, projectID string) ([]domain.ProjectUpdate, error)
}

const (
	fallbackProjectSlug = "project"
	sequentialSlugTries = 5
)

// ProjectService handles project-related business logic
type ProjectService struct {
	store   Store
	updates UpdateLog
	now     func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(store Store, updates UpdateLog) *ProjectService {
	return &ProjectService{
		store:   store,
		updates: updates,
		now:     time.Now,
	}
}

// Authorize loads a project the actor owns. Projects owned by someone else read as not found.
func (s *ProjectService) Authorize(ctx context.Context, actor domain.Actor, projectID string) (*domain.Project, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(p) {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Create creates a new project owned by the actor and assigns it a globally unique slug.
func (s *ProjectService) Create(ctx context.Context, actor domain.Actor, req domain.CreateProjectRequest) (*domain.Project, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "required")
	}
	if req.Visibility == "" {
		req.Visibility = domain.VisibilityPrivate
	}

	now := s.now().UTC()
	p := &domain.Project{
		ID:          uuid.New().String(),
		OwnerUserID: actor.UserID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Visibility:  req.Visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	base := slug.Make(name)
	if base == "" {
		base = fallbackProjectSlug
	}

	for i := 0; i <= sequentialSlugTries; i++ {
		candidate := slug.Candidate(base, i)
		if i == sequentialSlugTries {
			candidate = base + "-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
		}
		p.Slug = &candidate

		err := s.store.Create(ctx, p)
		if err == nil {
			return p, nil
		}
		// unique violation on slug → retry
		if errors.Is(err, domain.ErrSlugTaken) {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique project slug: %w", domain.ErrSlugTaken)
}

// List returns all projects owned by the actor
func (s *ProjectService) List(ctx context.Context, actor domain.Actor) ([]domain.Project, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.store.ListByOwner(ctx, actor.UserID)
}

func (s *ProjectService) Get(ctx context.Context, actor domain.Actor, projectID string) (*domain.Project, error) {
	return s.Authorize(ctx, actor, projectID)
}

// Update applies a partial change and appends a SETTINGS_CHANGED update describing it.
func (s *ProjectService) Update(ctx context.Context, actor domain.Actor, projectID string, req domain.UpdateProjectRequest) (*domain.Project, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}

	p, err := s.Authorize(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	if req.Empty() {
		return p, nil
	}

	changed := map[string]interface{}{}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
		changed["name"] = p.Name
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
		changed["description"] = p.Description
	}
	if req.Visibility != nil {
		p.Visibility = *req.Visibility
		changed["visibility"] = string(p.Visibility)
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}

	u := &domain.ProjectUpdate{
		ID:          uuid.New().String(),
		ProjectID:   p.ID,
		Type:        domain.UpdateSettingsChanged,
		Title:       "Project settings changed",
		Description: "",
		Metadata:    map[string]interface{}{"changed": changed},
		CreatedAt:   p.UpdatedAt,
	}
	if err := s.updates.Append(ctx, u); err != nil {
		logging.NewLogger(ctx).LogError("append_settings_update", err)
		return nil, fmt.Errorf("project %s updated but release log append failed: %w", p.ID, err)
	}

	return p, nil
}

// Delete removes a project the actor owns together with everything it owns.
func (s *ProjectService) Delete(ctx context.Context, actor domain.Actor, projectID string) error {
	if _, err := s.Authorize(ctx, actor, projectID); err != nil {
		return err
	}
	ok, err := s.store.Delete(ctx, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// ListUpdates returns the project's release log, newest first.
func (s *ProjectService) ListUpdates(ctx context.Context, actor domain.Actor, projectID string) ([]domain.ProjectUpdate, error) {
	if _, err := s.Authorize(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.updates.ListByProject(ctx, projectID)
}

// GetPublic resolves a project by slug for the public update pages. Private projects do not resolve.
func (s *ProjectService) GetPublic(ctx context.Context, projectSlug string) (*domain.Project, error) {
	p, err := s.store.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}
	if p.Visibility == domain.VisibilityPrivate {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// AdminList returns every project for moderation.
func (s *ProjectService) AdminList(ctx context.Context, actor domain.Actor) ([]domain.Project, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.ListAll(ctx)
}

// AdminDelete removes any project regardless of owner.
func (s *ProjectService) AdminDelete(ctx context.Context, actor domain.Actor, projectID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	ok, err := s.store.Delete(ctx, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	logging.NewLogger(ctx).LogInfof("admin_delete_project", "admin=%s project=%s", actor.UserID, projectID)
	return nil
}

func requireAdmin(actor domain.Actor) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
