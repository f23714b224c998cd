package service

import (
	"context"
	"errors"

	"github.com/playpulse/playpulse-backend/internal/logging"
	projectdomain "github.com/playpulse/playpulse-backend/internal/projects/domain"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

var errAlreadyAssigned = errors.New("slug assigned concurrently")

// BackfillService assigns slugs to versions created before slugs existed. It works one version
// at a time; the (project, slug) unique constraint rejects a lost race and the next suffix is tried.
type BackfillService struct {
	store BackfillStore
	cache PublicCache
}

func NewBackfillService(store BackfillStore, cache PublicCache) *BackfillService {
	if cache == nil {
		cache = NoopCache
	}
	return &BackfillService{store: store, cache: cache}
}

// Run backfills every slug-less version in projects the actor owns.
func (s *BackfillService) Run(ctx context.Context, actor projectdomain.Actor) ([]domain.BackfillResult, error) {
	if !actor.Authenticated() {
		return nil, projectdomain.ErrUnauthenticated
	}
	return s.RunForOwner(ctx, actor.UserID)
}

// RunForOwner is Run without an actor, used by the scheduled job.
func (s *BackfillService) RunForOwner(ctx context.Context, ownerUserID string) ([]domain.BackfillResult, error) {
	log := logging.NewLogger(ctx)

	pending, err := s.store.ListMissingSlugs(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	results := make([]domain.BackfillResult, 0, len(pending))
	for _, v := range pending {
		taken := func(c string) (bool, error) {
			return s.store.SlugTaken(ctx, v.ProjectID, c, v.ID)
		}
		claim := func(c string) error {
			ok, err := s.store.AssignSlug(ctx, v.ID, c)
			if err != nil {
				return err
			}
			if !ok {
				return errAlreadyAssigned
			}
			return nil
		}

		assigned, err := claimSlug(domain.BaseSlug(v.Version, v.Title), taken, claim)
		if errors.Is(err, errAlreadyAssigned) {
			log.LogInfof("backfill_version_slug", "version=%s already has a slug, skipping", v.ID)
			continue
		}
		if err != nil {
			log.LogErrorf("backfill_version_slug", "version=%s: %v", v.ID, err)
			return results, err
		}

		s.cache.Invalidate(ctx, v.ID)
		results = append(results, domain.BackfillResult{ID: v.ID, Version: v.Version, Slug: assigned})
	}

	if len(results) > 0 {
		log.LogInfof("backfill_version_slugs", "owner=%s updated=%d", ownerUserID, len(results))
	}
	return results, nil
}

// Owners lists owners that still have slug-less versions.
func (s *BackfillService) Owners(ctx context.Context) ([]string, error) {
	return s.store.OwnersWithMissingSlugs(ctx)
}
