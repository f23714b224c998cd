package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	projectdomain "github.com/playpulse/playpulse-backend/internal/projects/domain"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

// SectionService manages the structured section/block representation of a version's page.
// Order values are stored as given; reads sort by (order, createdAt, id).
type SectionService struct {
	scope
	sections SectionStore
	cache    PublicCache
	now      func() time.Time
}

func NewSectionService(projects ProjectAuthorizer, versions VersionStore, sections SectionStore, cache PublicCache) *SectionService {
	if cache == nil {
		cache = NoopCache
	}
	return &SectionService{
		scope:    scope{projects: projects, versions: versions},
		sections: sections,
		cache:    cache,
		now:      time.Now,
	}
}

func (s *SectionService) List(ctx context.Context, actor projectdomain.Actor, projectID, versionID string) ([]domain.Section, error) {
	if _, err := s.version(ctx, actor, projectID, versionID); err != nil {
		return nil, err
	}
	return s.sections.ListByVersion(ctx, versionID)
}

func (s *SectionService) Create(ctx context.Context, actor projectdomain.Actor, projectID, versionID string, req domain.CreateSectionRequest) (*domain.Section, error) {
	if !actor.Authenticated() {
		return nil, projectdomain.ErrUnauthenticated
	}
	if req.Order != nil && *req.Order < 0 {
		return nil, projectdomain.NewValidationError("order", "must not be negative")
	}
	if _, err := s.version(ctx, actor, projectID, versionID); err != nil {
		return nil, err
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else {
		existing, err := s.sections.ListByVersion(ctx, versionID)
		if err != nil {
			return nil, err
		}
		order = nextSectionOrder(existing)
	}

	now := s.now().UTC()
	sec := &domain.Section{
		ID:              uuid.New().String(),
		VersionID:       versionID,
		Title:           strings.TrimSpace(req.Title),
		Order:           order,
		Layout:          orDefault(req.Layout, domain.DefaultLayout),
		BackgroundColor: req.BackgroundColor,
		AccentColor:     req.AccentColor,
		Padding:         orDefault(req.Padding, domain.DefaultPadding),
		Blocks:          []domain.Block{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.sections.CreateSection(ctx, sec); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, versionID)
	return sec, nil
}

func (s *SectionService) Update(ctx context.Context, actor projectdomain.Actor, projectID, versionID, sectionID string, req domain.UpdateSectionRequest) (*domain.Section, error) {
	if !actor.Authenticated() {
		return nil, projectdomain.ErrUnauthenticated
	}
	if req.Order != nil && *req.Order < 0 {
		return nil, projectdomain.NewValidationError("order", "must not be negative")
	}
	if _, err := s.version(ctx, actor, projectID, versionID); err != nil {
		return nil, err
	}

	sec, err := s.sections.GetSection(ctx, versionID, sectionID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		sec.Title = strings.TrimSpace(*req.Title)
	}
	if req.Order != nil {
		sec.Order = *req.Order
	}
	if req.Layout != nil {
		sec.Layout = orDefault(*req.Layout, domain.DefaultLayout)
	}
	if req.BackgroundColor != nil {
		sec.BackgroundColor = *req.BackgroundColor
	}
	if req.AccentColor != nil {
		sec.AccentColor = *req.AccentColor
	}
	if req.Padding != nil {
		sec.Padding = orDefault(*req.Padding, domain.DefaultPadding)
	}
	sec.UpdatedAt = s.now().UTC()

	if err := s.sections.UpdateSection(ctx, sec); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, versionID)
	return sec, nil
}

// Delete removes a section and its blocks.
func (s *SectionService) Delete(ctx context.Context, actor projectdomain.Actor, projectID, versionID, sectionID string) error {
	if _, err := s.version(ctx, actor, projectID, versionID); err != nil {
		return err
	}
	ok, err := s.sections.DeleteSection(ctx, versionID, sectionID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrSectionNotFound
	}
	s.cache.Invalidate(ctx, versionID)
	return nil
}

func (s *SectionService) CreateBlock(ctx context.Context, actor projectdomain.Actor, projectID, versionID, sectionID string, req domain.CreateBlockRequest) (*domain.Block, error) {
	if !actor.Authenticated() {
		return nil, projectdomain.ErrUnauthenticated
	}
	if err := validateBlock(&req.Type, req.Order, req.Data, true); err != nil {
		return nil, err
	}
	sec, err := s.section(ctx, actor, projectID, versionID, sectionID)
	if err != nil {
		return nil, err
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else {
		order = nextBlockOrder(sec.Blocks)
	}
	data := req.Data
	if omitted(data) {
		data = json.RawMessage(`{}`)
	}

	now := s.now().UTC()
	b := &domain.Block{
		ID:        uuid.New().String(),
		SectionID: sec.ID,
		Type:      strings.TrimSpace(req.Type),
		Order:     order,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sections.CreateBlock(ctx, b); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, versionID)
	return b, nil
}

func (s *SectionService) UpdateBlock(ctx context.Context, actor projectdomain.Actor, projectID, versionID, sectionID, blockID string, req domain.UpdateBlockRequest) (*domain.Block, error) {
	if !actor.Authenticated() {
		return nil, projectdomain.ErrUnauthenticated
	}
	if err := validateBlock(req.Type, req.Order, req.Data, false); err != nil {
		return nil, err
	}
	if _, err := s.section(ctx, actor, projectID, versionID, sectionID); err != nil {
		return nil, err
	}

	b, err := s.sections.GetBlock(ctx, sectionID, blockID)
	if err != nil {
		return nil, err
	}
	if req.Type != nil {
		b.Type = strings.TrimSpace(*req.Type)
	}
	if req.Order != nil {
		b.Order = *req.Order
	}
	if !omitted(req.Data) {
		b.Data = req.Data
	}
	b.UpdatedAt = s.now().UTC()

	if err := s.sections.UpdateBlock(ctx, b); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, versionID)
	return b, nil
}

func (s *SectionService) DeleteBlock(ctx context.Context, actor projectdomain.Actor, projectID, versionID, sectionID, blockID string) error {
	if _, err := s.section(ctx, actor, projectID, versionID, sectionID); err != nil {
		return err
	}
	ok, err := s.sections.DeleteBlock(ctx, sectionID, blockID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrBlockNotFound
	}
	s.cache.Invalidate(ctx, versionID)
	return nil
}

func (s *SectionService) section(ctx context.Context, actor projectdomain.Actor, projectID, versionID, sectionID string) (*domain.Section, error) {
	if _, err := s.version(ctx, actor, projectID, versionID); err != nil {
		return nil, err
	}
	return s.sections.GetSection(ctx, versionID, sectionID)
}

func validateBlock(typ *string, order *int, data json.RawMessage, create bool) error {
	v := &projectdomain.ValidationError{}
	if create && (typ == nil || strings.TrimSpace(*typ) == "") {
		v.Add("type", "required")
	} else if typ != nil && strings.TrimSpace(*typ) == "" {
		v.Add("type", "must not be empty")
	}
	if order != nil && *order < 0 {
		v.Add("order", "must not be negative")
	}
	if !omitted(data) {
		if err := domain.ValidateSettings(data); err != nil {
			v.Add("data", "must be a JSON object")
		}
	}
	return v.OrNil()
}

func nextSectionOrder(existing []domain.Section) int {
	next := 0
	for _, s := range existing {
		if s.Order >= next {
			next = s.Order + 1
		}
	}
	return next
}

func nextBlockOrder(existing []domain.Block) int {
	next := 0
	for _, b := range existing {
		if b.Order >= next {
			next = b.Order + 1
		}
	}
	return next
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
