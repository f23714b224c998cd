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

// SectionRepository persists sections and their blocks. Order values are stored as given.
type SectionRepository struct {
	db *sql.DB
}

func NewSectionRepository(db *sql.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

const sectionColumns = `id, version_id, title, sort_order, layout, background_color, accent_color, padding, created_at, updated_at`
const blockColumns = `id, section_id, type, sort_order, data::text, created_at, updated_at`

func (r *SectionRepository) ListByVersion(ctx context.Context, versionID string) ([]domain.Section, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE version_id = $1 ORDER BY sort_order, created_at, id`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Section, 0, 8)
	ids := make([]string, 0, 8)
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	blocks, err := r.blocksFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if b, ok := blocks[out[i].ID]; ok {
			out[i].Blocks = b
		}
	}
	return out, nil
}

func (r *SectionRepository) GetSection(ctx context.Context, versionID, sectionID string) (*domain.Section, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE version_id = $1 AND id = $2`, versionID, sectionID)
	s, err := scanSection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	blocks, err := r.blocksFor(ctx, []string{s.ID})
	if err != nil {
		return nil, err
	}
	if b, ok := blocks[s.ID]; ok {
		s.Blocks = b
	}
	return s, nil
}

func (r *SectionRepository) CreateSection(ctx context.Context, s *domain.Section) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sections (id, version_id, title, sort_order, layout, background_color, accent_color, padding, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`, s.ID, s.VersionID, s.Title, s.Order, s.Layout, s.BackgroundColor, s.AccentColor, s.Padding, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	return nil
}

func (r *SectionRepository) UpdateSection(ctx context.Context, s *domain.Section) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE sections
SET title = $3, sort_order = $4, layout = $5, background_color = $6, accent_color = $7, padding = $8, updated_at = $9
WHERE version_id = $1 AND id = $2
`, s.VersionID, s.ID, s.Title, s.Order, s.Layout, s.BackgroundColor, s.AccentColor, s.Padding, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update section: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSectionNotFound
	}
	return nil
}

func (r *SectionRepository) DeleteSection(ctx context.Context, versionID, sectionID string) (bool, error) {
	return deleted(r.db.ExecContext(ctx, `DELETE FROM sections WHERE version_id = $1 AND id = $2`, versionID, sectionID))
}

func (r *SectionRepository) GetBlock(ctx context.Context, sectionID, blockID string) (*domain.Block, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+blockColumns+` FROM blocks WHERE section_id = $1 AND id = $2`, sectionID, blockID)
	b, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get block: %w", err)
	}
	return b, nil
}

func (r *SectionRepository) CreateBlock(ctx context.Context, b *domain.Block) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO blocks (id, section_id, type, sort_order, data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)
`, b.ID, b.SectionID, b.Type, b.Order, string(b.Data), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}
	return nil
}

func (r *SectionRepository) UpdateBlock(ctx context.Context, b *domain.Block) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE blocks
SET type = $3, sort_order = $4, data = $5::jsonb, updated_at = $6
WHERE section_id = $1 AND id = $2
`, b.SectionID, b.ID, b.Type, b.Order, string(b.Data), b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update block: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBlockNotFound
	}
	return nil
}

func (r *SectionRepository) DeleteBlock(ctx context.Context, sectionID, blockID string) (bool, error) {
	return deleted(r.db.ExecContext(ctx, `DELETE FROM blocks WHERE section_id = $1 AND id = $2`, sectionID, blockID))
}

func (r *SectionRepository) blocksFor(ctx context.Context, sectionIDs []string) (map[string][]domain.Block, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+blockColumns+` FROM blocks WHERE section_id = any($1) ORDER BY sort_order, created_at, id`,
		pq.Array(sectionIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Block, len(sectionIDs))
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		out[b.SectionID] = append(out[b.SectionID], *b)
	}
	return out, rows.Err()
}

func scanSection(s scanner) (*domain.Section, error) {
	var sec domain.Section
	err := s.Scan(&sec.ID, &sec.VersionID, &sec.Title, &sec.Order, &sec.Layout,
		&sec.BackgroundColor, &sec.AccentColor, &sec.Padding, &sec.CreatedAt, &sec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sec.Blocks = []domain.Block{}
	return &sec, nil
}

func scanBlock(s scanner) (*domain.Block, error) {
	var b domain.Block
	var data string
	if err := s.Scan(&b.ID, &b.SectionID, &b.Type, &b.Order, &data, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Data = json.RawMessage(data)
	return &b, nil
}

func deleted(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, fmt.Errorf("failed to delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
