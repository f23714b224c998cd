package memory

import (
	"context"
	"sort"

	projectdomain "github.com/playpulse/playpulse-backend/internal/projects/domain"
)

type ProjectStore struct{ s *Store }

func (r *ProjectStore) Create(_ context.Context, p *projectdomain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.Slug != nil {
		for _, other := range r.s.projects {
			if other.Slug != nil && *other.Slug == *p.Slug {
				return projectdomain.ErrSlugTaken
			}
		}
	}
	cp := *p
	cp.Slug = cloneString(p.Slug)
	r.s.projects[p.ID] = cp
	return nil
}

func (r *ProjectStore) Get(_ context.Context, id string) (*projectdomain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, projectdomain.ErrNotFound
	}
	p.Slug = cloneString(p.Slug)
	return &p, nil
}

func (r *ProjectStore) GetBySlug(_ context.Context, slug string) (*projectdomain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.projects {
		if p.Slug != nil && *p.Slug == slug {
			p.Slug = cloneString(p.Slug)
			return &p, nil
		}
	}
	return nil, projectdomain.ErrNotFound
}

func (r *ProjectStore) ListByOwner(_ context.Context, ownerUserID string) ([]projectdomain.Project, error) {
	return r.list(func(p projectdomain.Project) bool { return p.OwnerUserID == ownerUserID }), nil
}

func (r *ProjectStore) ListAll(_ context.Context) ([]projectdomain.Project, error) {
	return r.list(func(projectdomain.Project) bool { return true }), nil
}

func (r *ProjectStore) list(keep func(projectdomain.Project) bool) []projectdomain.Project {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []projectdomain.Project{}
	for _, p := range r.s.projects {
		if keep(p) {
			p.Slug = cloneString(p.Slug)
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *ProjectStore) Update(_ context.Context, p *projectdomain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[p.ID]; !ok {
		return projectdomain.ErrNotFound
	}
	if p.Slug != nil {
		for id, other := range r.s.projects {
			if id != p.ID && other.Slug != nil && *other.Slug == *p.Slug {
				return projectdomain.ErrSlugTaken
			}
		}
	}
	cp := *p
	cp.Slug = cloneString(p.Slug)
	r.s.projects[p.ID] = cp
	return nil
}

// Delete cascades to versions, pages, sections, blocks and the release log.
func (r *ProjectStore) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[id]; !ok {
		return false, nil
	}
	delete(r.s.projects, id)
	for vid, v := range r.s.versions {
		if v.ProjectID == id {
			r.s.deleteVersionLocked(vid)
		}
	}
	kept := r.s.updates[:0]
	for _, u := range r.s.updates {
		if u.ProjectID != id {
			kept = append(kept, u)
		}
	}
	r.s.updates = kept
	return true, nil
}

type UpdateStore struct{ s *Store }

func (r *UpdateStore) Append(_ context.Context, u *projectdomain.ProjectUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[u.ProjectID]; !ok {
		return projectdomain.ErrNotFound
	}
	r.s.updates = append(r.s.updates, *u)
	return nil
}

// ListByProject returns the project's updates newest first.
func (r *UpdateStore) ListByProject(_ context.Context, projectID string) ([]projectdomain.ProjectUpdate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []projectdomain.ProjectUpdate{}
	for i := len(r.s.updates) - 1; i >= 0; i-- {
		if r.s.updates[i].ProjectID == projectID {
			out = append(out, r.s.updates[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
