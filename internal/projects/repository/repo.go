package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playpulse/playpulse-backend/internal/projects/domain"
	"github.com/playpulse/playpulse-backend/internal/storage/postgres"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, owner_user_id, name, slug, description, visibility, created_at, updated_at`

// Create inserts p. A taken slug is reported as domain.ErrSlugTaken so the caller can retry.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	const q = `
INSERT INTO projects (id, owner_user_id, name, slug, description, visibility, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.OwnerUserID, p.Name, nullString(p.Slug), p.Description, string(p.Visibility), p.CreatedAt, p.UpdatedAt)
	if postgres.IsUniqueViolation(err, "projects_slug_key") {
		return domain.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return r.one(r.db.QueryRowContext(ctx, q, id))
}

func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE slug = $1`
	return r.one(r.db.QueryRowContext(ctx, q, slug))
}

// ListByOwner returns the owner's projects, newest first.
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerUserID string) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE owner_user_id = $1 ORDER BY created_at DESC, id DESC`
	return r.many(ctx, q, ownerUserID)
}

func (r *ProjectRepository) ListAll(ctx context.Context) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, id DESC`
	return r.many(ctx, q)
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	const q = `
UPDATE projects
SET name = $2, slug = $3, description = $4, visibility = $5, updated_at = $6
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.Name, nullString(p.Slug), p.Description, string(p.Visibility), p.UpdatedAt)
	if postgres.IsUniqueViolation(err, "projects_slug_key") {
		return domain.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the project; foreign keys cascade to versions, pages and the release log.
func (r *ProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var slug sql.NullString
	var visibility string
	if err := s.Scan(&p.ID, &p.OwnerUserID, &p.Name, &slug, &p.Description, &visibility, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if slug.Valid {
		p.Slug = &slug.String
	}
	p.Visibility = domain.Visibility(visibility)
	return &p, nil
}

func (r *ProjectRepository) one(row *sql.Row) (*domain.Project, error) {
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) many(ctx context.Context, q string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
