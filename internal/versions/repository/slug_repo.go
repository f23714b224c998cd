package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/playpulse/playpulse-backend/internal/storage/postgres"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

// querier is the part of *pgxpool.Pool the backfill repository uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SlugRepository backs the slug backfill job on the pgx pool. Each slug is claimed in its own
// statement; there is no batch transaction.
type SlugRepository struct {
	db querier
}

func NewSlugRepository(db *pgxpool.Pool) *SlugRepository {
	return &SlugRepository{db: db}
}

// ListMissingSlugs returns slug-less versions in projects owned by ownerUserID, oldest first.
func (r *SlugRepository) ListMissingSlugs(ctx context.Context, ownerUserID string) ([]domain.Version, error) {
	rows, err := r.db.Query(ctx, `
select v.id, v.project_id, v.version, v.title, v.created_at
from versions v
join projects p on p.id = v.project_id
where p.owner_user_id = $1 and v.slug is null
order by v.created_at, v.id
`, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list versions missing slugs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Version, 0, 16)
	for rows.Next() {
		var v domain.Version
		if err := rows.Scan(&v.ID, &v.ProjectID, &v.Version, &v.Title, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *SlugRepository) OwnersWithMissingSlugs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
select distinct p.owner_user_id
from versions v
join projects p on p.id = v.project_id
where v.slug is null
order by p.owner_user_id
`)
	if err != nil {
		return nil, fmt.Errorf("list owners missing slugs: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, 8)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *SlugRepository) SlugTaken(ctx context.Context, projectID, slug, excludeVersionID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`select exists(select 1 from versions where project_id = $1 and slug = $2 and id <> $3)`,
		projectID, slug, excludeVersionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check version slug: %w", err)
	}
	return exists, nil
}

// AssignSlug sets the slug only while it is still NULL. A concurrent claim of the same slug
// in the project fails on versions_project_slug_key and is reported as domain.ErrSlugTaken.
func (r *SlugRepository) AssignSlug(ctx context.Context, versionID, slug string) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`update versions set slug = $2, updated_at = now() where id = $1 and slug is null`,
		versionID, slug)
	if postgres.IsUniqueViolation(err, slugConstraint) {
		return false, domain.ErrSlugTaken
	}
	if err != nil {
		return false, fmt.Errorf("assign version slug: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
