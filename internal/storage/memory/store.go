// Package memory is an in-process implementation of every store the services need. It enforces
// the same unique constraints and cascades as the Postgres schema and is used by tests and by
// STORAGE=memory for local development.
package memory

import (
	"encoding/json"
	"sync"

	projectdomain "github.com/playpulse/playpulse-backend/internal/projects/domain"
	"github.com/playpulse/playpulse-backend/internal/users"
	versiondomain "github.com/playpulse/playpulse-backend/internal/versions/domain"
)

// Store holds all tables behind one lock. The accessor types share it.
type Store struct {
	mu sync.RWMutex

	projects map[string]projectdomain.Project
	updates  []projectdomain.ProjectUpdate
	versions map[string]versiondomain.Version
	pages    map[string]versiondomain.Page
	sections map[string]versiondomain.Section
	blocks   map[string]versiondomain.Block
	users    map[string]users.User
	userSeq  int
}

func New() *Store {
	return &Store{
		projects: map[string]projectdomain.Project{},
		versions: map[string]versiondomain.Version{},
		pages:    map[string]versiondomain.Page{},
		sections: map[string]versiondomain.Section{},
		blocks:   map[string]versiondomain.Block{},
		users:    map[string]users.User{},
	}
}

func (s *Store) Projects() *ProjectStore { return &ProjectStore{s} }
func (s *Store) Updates() *UpdateStore   { return &UpdateStore{s} }
func (s *Store) Versions() *VersionStore { return &VersionStore{s} }
func (s *Store) Pages() *PageStore       { return &PageStore{s} }
func (s *Store) Sections() *SectionStore { return &SectionStore{s} }
func (s *Store) Backfill() *BackfillStore {
	return &BackfillStore{s}
}
func (s *Store) Users() *UserStore { return &UserStore{s} }

// deleteVersionLocked removes a version with its page, sections and blocks.
func (s *Store) deleteVersionLocked(versionID string) {
	delete(s.versions, versionID)
	delete(s.pages, versionID)
	for id, sec := range s.sections {
		if sec.VersionID == versionID {
			s.deleteSectionLocked(id)
		}
	}
}

func (s *Store) deleteSectionLocked(sectionID string) {
	delete(s.sections, sectionID)
	for id, b := range s.blocks {
		if b.SectionID == sectionID {
			delete(s.blocks, id)
		}
	}
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
