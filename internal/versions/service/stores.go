package service

import (
	"context"
	"encoding/json"
	"time"

	projectdomain "github.com/playpulse/playpulse-backend/internal/projects/domain"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

// ProjectAuthorizer resolves the parent project of every version operation. Authorize must hit the
// store on every call; ownership is never cached.
type ProjectAuthorizer interface {
	Authorize(ctx context.Context, actor projectdomain.Actor, projectID string) (*projectdomain.Project, error)
	GetPublic(ctx context.Context, projectSlug string) (*projectdomain.Project, error)
}

// ReleaseLog receives the VERSION_RELEASE event appended when a version is created.
type ReleaseLog interface {
	Append(ctx context.Context, u *projectdomain.ProjectUpdate) error
}

// VersionStore persists versions. Every lookup is scoped to the claimed project id.
// Update returns domain.ErrSlugTaken when the (project, slug) constraint rejects the row.
type VersionStore interface {
	Create(ctx context.Context, v *domain.Version) error
	Get(ctx context.Context, projectID, versionID string) (*domain.Version, error)
	GetBySlug(ctx context.Context, projectID, slug string) (*domain.Version, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Version, error)
	// Update writes version, title, description, image URL and updated_at only.
	Update(ctx context.Context, v *domain.Version) error
	Publish(ctx context.Context, projectID, versionID string, at time.Time) error
	// SetSlug returns domain.ErrSlugTaken when another version of the project holds slug.
	SetSlug(ctx context.Context, projectID, versionID, slug string, at time.Time) error
	Delete(ctx context.Context, projectID, versionID string) (bool, error)
	SlugTaken(ctx context.Context, projectID, slug, excludeVersionID string) (bool, error)
}

// PageStore persists at most one page per version. Get returns (nil, nil) when none was saved.
type PageStore interface {
	Get(ctx context.Context, versionID string) (*domain.Page, error)
	Upsert(ctx context.Context, p *domain.Page) error
	ListContents(ctx context.Context, versionIDs []string) (map[string]json.RawMessage, error)
}

// SectionStore persists the structured section/block representation.
type SectionStore interface {
	ListByVersion(ctx context.Context, versionID string) ([]domain.Section, error)
	GetSection(ctx context.Context, versionID, sectionID string) (*domain.Section, error)
	CreateSection(ctx context.Context, s *domain.Section) error
	UpdateSection(ctx context.Context, s *domain.Section) error
	DeleteSection(ctx context.Context, versionID, sectionID string) (bool, error)
	GetBlock(ctx context.Context, sectionID, blockID string) (*domain.Block, error)
	CreateBlock(ctx context.Context, b *domain.Block) error
	UpdateBlock(ctx context.Context, b *domain.Block) error
	DeleteBlock(ctx context.Context, sectionID, blockID string) (bool, error)
}

// BackfillStore finds versions without slugs and claims slugs for them one row at a time.
// AssignSlug only writes while the row's slug is still NULL and reports whether it did; a
// (project, slug) collision is domain.ErrSlugTaken.
type BackfillStore interface {
	ListMissingSlugs(ctx context.Context, ownerUserID string) ([]domain.Version, error)
	OwnersWithMissingSlugs(ctx context.Context) ([]string, error)
	SlugTaken(ctx context.Context, projectID, slug, excludeVersionID string) (bool, error)
	AssignSlug(ctx context.Context, versionID, slug string) (bool, error)
}

// PublicCache caches rendered public update pages. Implementations must tolerate backend outages
// by reporting a miss.
type PublicCache interface {
	Get(ctx context.Context, projectSlug, versionRef string) (*domain.PublicUpdate, bool)
	Set(ctx context.Context, projectSlug, versionRef string, u *domain.PublicUpdate)
	Invalidate(ctx context.Context, versionID string)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, string) (*domain.PublicUpdate, bool) { return nil, false }
func (noopCache) Set(context.Context, string, string, *domain.PublicUpdate)        {}
func (noopCache) Invalidate(context.Context, string)                               {}

// NoopCache disables public page caching.
var NoopCache PublicCache = noopCache{}
