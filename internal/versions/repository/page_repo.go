package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

// PageRepository upserts the single page row of a version.
type PageRepository struct {
	db *sql.DB
}

func NewPageRepository(db *sql.DB) *PageRepository {
	return &PageRepository{db: db}
}

// Get returns (nil, nil) when the version has no saved page.
func (r *PageRepository) Get(ctx context.Context, versionID string) (*domain.Page, error) {
	var content, settings string
	err := r.db.QueryRowContext(ctx, `
select content::text, settings::text
from pages
where version_id = $1
`, versionID).Scan(&content, &settings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return &domain.Page{
		VersionID: versionID,
		Content:   json.RawMessage(content),
		Settings:  json.RawMessage(settings),
	}, nil
}

// Upsert replaces content and settings wholesale.
func (r *PageRepository) Upsert(ctx context.Context, p *domain.Page) error {
	_, err := r.db.ExecContext(ctx, `
insert into pages (version_id, content, settings, updated_at)
values ($1, $2::json, $3::json, now())
on conflict (version_id) do update set
  content = excluded.content,
  settings = excluded.settings,
  updated_at = now()
`, p.VersionID, string(p.Content), string(p.Settings))
	if err != nil {
		return fmt.Errorf("failed to save page: %w", err)
	}
	return nil
}

// ListContents loads the content of every listed version that has a page.
func (r *PageRepository) ListContents(ctx context.Context, versionIDs []string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(versionIDs))
	if len(versionIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
select version_id, content::text
from pages
where version_id = any($1)
`, pq.Array(versionIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list page contents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, content string
		if err := rows.Scan(&id, &content); err != nil {
			return nil, err
		}
		out[id] = json.RawMessage(content)
	}
	return out, rows.Err()
}
