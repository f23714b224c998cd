package memory

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

type VersionStore struct{ s *Store }

func copyVersion(v domain.Version) domain.Version {
	v.Slug = cloneString(v.Slug)
	if v.PublishedAt != nil {
		t := *v.PublishedAt
		v.PublishedAt = &t
	}
	return v
}

// slugTakenLocked reports whether another version of projectID holds slug.
func (s *Store) slugTakenLocked(projectID, slug, excludeID string) bool {
	for id, v := range s.versions {
		if id != excludeID && v.ProjectID == projectID && v.Slug != nil && *v.Slug == slug {
			return true
		}
	}
	return false
}

func (r *VersionStore) Create(_ context.Context, v *domain.Version) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[v.ProjectID]; !ok {
		return domain.ErrVersionNotFound
	}
	if v.Slug != nil && r.s.slugTakenLocked(v.ProjectID, *v.Slug, v.ID) {
		return domain.ErrSlugTaken
	}
	r.s.versions[v.ID] = copyVersion(*v)
	return nil
}

func (r *VersionStore) Get(_ context.Context, projectID, versionID string) (*domain.Version, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.versions[versionID]
	if !ok || v.ProjectID != projectID {
		return nil, domain.ErrVersionNotFound
	}
	v = copyVersion(v)
	return &v, nil
}

func (r *VersionStore) GetBySlug(_ context.Context, projectID, slug string) (*domain.Version, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, v := range r.s.versions {
		if v.ProjectID == projectID && v.Slug != nil && *v.Slug == slug {
			v = copyVersion(v)
			return &v, nil
		}
	}
	return nil, domain.ErrVersionNotFound
}

// ListByProject returns versions newest first.
func (r *VersionStore) ListByProject(_ context.Context, projectID string) ([]domain.Version, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Version{}
	for _, v := range r.s.versions {
		if v.ProjectID == projectID {
			out = append(out, copyVersion(v))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// Update writes the editable fields only; slug and publish state are left as stored.
func (r *VersionStore) Update(_ context.Context, v *domain.Version) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.versions[v.ID]
	if !ok || cur.ProjectID != v.ProjectID {
		return domain.ErrVersionNotFound
	}
	cur.Version = v.Version
	cur.Title = v.Title
	cur.Description = v.Description
	cur.ImageURL = v.ImageURL
	cur.UpdatedAt = v.UpdatedAt
	r.s.versions[v.ID] = cur
	return nil
}

func (r *VersionStore) Publish(_ context.Context, projectID, versionID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.versions[versionID]
	if !ok || cur.ProjectID != projectID {
		return domain.ErrVersionNotFound
	}
	cur.Publish(at)
	cur.UpdatedAt = at
	r.s.versions[versionID] = cur
	return nil
}

func (r *VersionStore) SetSlug(_ context.Context, projectID, versionID, slug string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.versions[versionID]
	if !ok || cur.ProjectID != projectID {
		return domain.ErrVersionNotFound
	}
	if r.s.slugTakenLocked(projectID, slug, versionID) {
		return domain.ErrSlugTaken
	}
	cur.Slug = &slug
	cur.UpdatedAt = at
	r.s.versions[versionID] = cur
	return nil
}

func (r *VersionStore) Delete(_ context.Context, projectID, versionID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.versions[versionID]
	if !ok || v.ProjectID != projectID {
		return false, nil
	}
	r.s.deleteVersionLocked(versionID)
	return true, nil
}

func (r *VersionStore) SlugTaken(_ context.Context, projectID, slug, excludeVersionID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.slugTakenLocked(projectID, slug, excludeVersionID), nil
}

func sortNewestFirst(v []domain.Version) {
	sort.Slice(v, func(i, j int) bool {
		if !v[i].CreatedAt.Equal(v[j].CreatedAt) {
			return v[i].CreatedAt.After(v[j].CreatedAt)
		}
		return v[i].ID > v[j].ID
	})
}

type PageStore struct{ s *Store }

func (r *PageStore) Get(_ context.Context, versionID string) (*domain.Page, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pages[versionID]
	if !ok {
		return nil, nil
	}
	return &domain.Page{VersionID: versionID, Content: cloneRaw(p.Content), Settings: cloneRaw(p.Settings)}, nil
}

func (r *PageStore) Upsert(_ context.Context, p *domain.Page) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.versions[p.VersionID]; !ok {
		return domain.ErrVersionNotFound
	}
	r.s.pages[p.VersionID] = domain.Page{
		VersionID: p.VersionID,
		Content:   cloneRaw(p.Content),
		Settings:  cloneRaw(p.Settings),
	}
	return nil
}

func (r *PageStore) ListContents(_ context.Context, versionIDs []string) (map[string]json.RawMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]json.RawMessage, len(versionIDs))
	for _, id := range versionIDs {
		if p, ok := r.s.pages[id]; ok {
			out[id] = cloneRaw(p.Content)
		}
	}
	return out, nil
}

// BackfillStore claims slugs one version at a time.
type BackfillStore struct{ s *Store }

// ListMissingSlugs returns slug-less versions in projects owned by ownerUserID, oldest first.
func (r *BackfillStore) ListMissingSlugs(_ context.Context, ownerUserID string) ([]domain.Version, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Version{}
	for _, v := range r.s.versions {
		p, ok := r.s.projects[v.ProjectID]
		if ok && p.OwnerUserID == ownerUserID && v.Slug == nil {
			out = append(out, copyVersion(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *BackfillStore) OwnersWithMissingSlugs(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := map[string]bool{}
	out := []string{}
	for _, v := range r.s.versions {
		if v.Slug != nil {
			continue
		}
		p, ok := r.s.projects[v.ProjectID]
		if ok && !seen[p.OwnerUserID] {
			seen[p.OwnerUserID] = true
			out = append(out, p.OwnerUserID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *BackfillStore) SlugTaken(ctx context.Context, projectID, slug, excludeVersionID string) (bool, error) {
	return (&VersionStore{r.s}).SlugTaken(ctx, projectID, slug, excludeVersionID)
}

// AssignSlug writes slug only while the version's slug is still unset.
func (r *BackfillStore) AssignSlug(_ context.Context, versionID, slug string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.versions[versionID]
	if !ok || v.Slug != nil {
		return false, nil
	}
	if r.s.slugTakenLocked(v.ProjectID, slug, versionID) {
		return false, domain.ErrSlugTaken
	}
	v.Slug = &slug
	r.s.versions[versionID] = v
	return true, nil
}
