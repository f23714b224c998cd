package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/playpulse/playpulse-backend/internal/projects/domain"
)

// UpdateRepository stores the append-only project release log.
type UpdateRepository struct {
	db *sql.DB
}

func NewUpdateRepository(db *sql.DB) *UpdateRepository {
	return &UpdateRepository{db: db}
}

func (r *UpdateRepository) Append(ctx context.Context, u *domain.ProjectUpdate) error {
	meta := u.Metadata
	if meta == nil {
		meta = map[string]interface{}{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode update metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
insert into project_updates (id, project_id, type, title, description, metadata, created_at)
values ($1, $2, $3, $4, $5, $6::jsonb, $7)
`, u.ID, u.ProjectID, string(u.Type), u.Title, u.Description, string(metaJSON), u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append project update: %w", err)
	}
	return nil
}

// ListByProject returns updates newest first.
func (r *UpdateRepository) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectUpdate, error) {
	rows, err := r.db.QueryContext(ctx, `
select id, project_id, type, title, description, metadata::text, created_at
from project_updates
where project_id = $1
order by created_at desc, id desc
`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project updates: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ProjectUpdate, 0, 16)
	for rows.Next() {
		var u domain.ProjectUpdate
		var typ, metaText string
		if err := rows.Scan(&u.ID, &u.ProjectID, &typ, &u.Title, &u.Description, &metaText, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Type = domain.UpdateType(typ)
		if err := json.Unmarshal([]byte(metaText), &u.Metadata); err != nil || u.Metadata == nil {
			u.Metadata = map[string]interface{}{}
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
