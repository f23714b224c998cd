package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/playpulse/playpulse-backend/internal/storage/postgres"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

const slugConstraint = "versions_project_slug_key"

// VersionRepository persists versions. Every read is scoped to the owning project id.
type VersionRepository struct {
	db *sql.DB
}

func NewVersionRepository(db *sql.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

const versionColumns = `id, project_id, version, title, description, image_url, slug, is_published, published_at, created_at, updated_at`

func (r *VersionRepository) Create(ctx context.Context, v *domain.Version) error {
	const q = `
INSERT INTO versions (id, project_id, version, title, description, image_url, slug, is_published, published_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	_, err := r.db.ExecContext(ctx, q,
		v.ID, v.ProjectID, v.Version, v.Title, v.Description, v.ImageURL,
		nullString(v.Slug), v.IsPublished, nullTime(v), v.CreatedAt, v.UpdatedAt)
	if postgres.IsUniqueViolation(err, slugConstraint) {
		return domain.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create version: %w", err)
	}
	return nil
}

func (r *VersionRepository) Get(ctx context.Context, projectID, versionID string) (*domain.Version, error) {
	q := `SELECT ` + versionColumns + ` FROM versions WHERE project_id = $1 AND id = $2`
	return one(r.db.QueryRowContext(ctx, q, projectID, versionID))
}

func (r *VersionRepository) GetBySlug(ctx context.Context, projectID, slug string) (*domain.Version, error) {
	q := `SELECT ` + versionColumns + ` FROM versions WHERE project_id = $1 AND slug = $2`
	return one(r.db.QueryRowContext(ctx, q, projectID, slug))
}

// ListByProject returns versions newest first.
func (r *VersionRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Version, error) {
	q := `SELECT ` + versionColumns + ` FROM versions WHERE project_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Version, 0, 16)
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// Update writes the editable fields only. Publish state and slug have their own writes so an edit
// never reverts a concurrent publish or backfill.
func (r *VersionRepository) Update(ctx context.Context, v *domain.Version) error {
	const q = `
UPDATE versions
SET version = $3, title = $4, description = $5, image_url = $6, updated_at = $7
WHERE project_id = $1 AND id = $2
`
	res, err := r.db.ExecContext(ctx, q,
		v.ProjectID, v.ID, v.Version, v.Title, v.Description, v.ImageURL, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update version: %w", err)
	}
	return affected(res)
}

// Publish sets the version PUBLISHED at the given time. Republishing refreshes published_at.
func (r *VersionRepository) Publish(ctx context.Context, projectID, versionID string, at time.Time) error {
	const q = `
UPDATE versions
SET is_published = true, published_at = $3, updated_at = $3
WHERE project_id = $1 AND id = $2
`
	res, err := r.db.ExecContext(ctx, q, projectID, versionID, at)
	if err != nil {
		return fmt.Errorf("failed to publish version: %w", err)
	}
	return affected(res)
}

// SetSlug claims slug for the version. A (project, slug) collision is domain.ErrSlugTaken.
func (r *VersionRepository) SetSlug(ctx context.Context, projectID, versionID, slug string, at time.Time) error {
	const q = `
UPDATE versions
SET slug = $3, updated_at = $4
WHERE project_id = $1 AND id = $2
`
	res, err := r.db.ExecContext(ctx, q, projectID, versionID, slug, at)
	if postgres.IsUniqueViolation(err, slugConstraint) {
		return domain.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to set version slug: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) error {
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

// Delete removes the version; its page, sections and blocks cascade.
func (r *VersionRepository) Delete(ctx context.Context, projectID, versionID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM versions WHERE project_id = $1 AND id = $2`, projectID, versionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete version: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *VersionRepository) SlugTaken(ctx context.Context, projectID, slug, excludeVersionID string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM versions WHERE project_id = $1 AND slug = $2 AND id <> $3)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, projectID, slug, excludeVersionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check version slug: %w", err)
	}
	return exists, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVersion(s scanner) (*domain.Version, error) {
	var v domain.Version
	var slug sql.NullString
	var publishedAt sql.NullTime
	err := s.Scan(&v.ID, &v.ProjectID, &v.Version, &v.Title, &v.Description, &v.ImageURL,
		&slug, &v.IsPublished, &publishedAt, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if slug.Valid {
		v.Slug = &slug.String
	}
	if publishedAt.Valid {
		t := publishedAt.Time.UTC()
		v.PublishedAt = &t
	}
	return &v, nil
}

func one(row *sql.Row) (*domain.Version, error) {
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return v, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(v *domain.Version) sql.NullTime {
	if v.PublishedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v.PublishedAt, Valid: true}
}
