package memory

import (
	"context"

	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

type SectionStore struct{ s *Store }

func (r *SectionStore) withBlocksLocked(sec domain.Section) domain.Section {
	sec.Blocks = []domain.Block{}
	for _, b := range r.s.blocks {
		if b.SectionID == sec.ID {
			b.Data = cloneRaw(b.Data)
			sec.Blocks = append(sec.Blocks, b)
		}
	}
	domain.SortBlocks(sec.Blocks)
	return sec
}

func (r *SectionStore) ListByVersion(_ context.Context, versionID string) ([]domain.Section, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Section{}
	for _, sec := range r.s.sections {
		if sec.VersionID == versionID {
			out = append(out, r.withBlocksLocked(sec))
		}
	}
	domain.SortSections(out)
	return out, nil
}

func (r *SectionStore) GetSection(_ context.Context, versionID, sectionID string) (*domain.Section, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sec, ok := r.s.sections[sectionID]
	if !ok || sec.VersionID != versionID {
		return nil, domain.ErrSectionNotFound
	}
	sec = r.withBlocksLocked(sec)
	return &sec, nil
}

func (r *SectionStore) CreateSection(_ context.Context, sec *domain.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.versions[sec.VersionID]; !ok {
		return domain.ErrVersionNotFound
	}
	cp := *sec
	cp.Blocks = nil
	r.s.sections[sec.ID] = cp
	return nil
}

func (r *SectionStore) UpdateSection(_ context.Context, sec *domain.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.sections[sec.ID]
	if !ok || cur.VersionID != sec.VersionID {
		return domain.ErrSectionNotFound
	}
	cp := *sec
	cp.Blocks = nil
	r.s.sections[sec.ID] = cp
	return nil
}

func (r *SectionStore) DeleteSection(_ context.Context, versionID, sectionID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sec, ok := r.s.sections[sectionID]
	if !ok || sec.VersionID != versionID {
		return false, nil
	}
	r.s.deleteSectionLocked(sectionID)
	return true, nil
}

func (r *SectionStore) GetBlock(_ context.Context, sectionID, blockID string) (*domain.Block, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.blocks[blockID]
	if !ok || b.SectionID != sectionID {
		return nil, domain.ErrBlockNotFound
	}
	b.Data = cloneRaw(b.Data)
	return &b, nil
}

func (r *SectionStore) CreateBlock(_ context.Context, b *domain.Block) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sections[b.SectionID]; !ok {
		return domain.ErrSectionNotFound
	}
	cp := *b
	cp.Data = cloneRaw(b.Data)
	r.s.blocks[b.ID] = cp
	return nil
}

func (r *SectionStore) UpdateBlock(_ context.Context, b *domain.Block) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.blocks[b.ID]
	if !ok || cur.SectionID != b.SectionID {
		return domain.ErrBlockNotFound
	}
	cp := *b
	cp.Data = cloneRaw(b.Data)
	r.s.blocks[b.ID] = cp
	return nil
}

func (r *SectionStore) DeleteBlock(_ context.Context, sectionID, blockID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.blocks[blockID]
	if !ok || b.SectionID != sectionID {
		return false, nil
	}
	delete(r.s.blocks, blockID)
	return true, nil
}
