package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// State is derived from IsPublished; there is no PUBLISHED -> DRAFT transition.
type State string

const (
	StateDraft     State = "DRAFT"
	StatePublished State = "PUBLISHED"
)

// Version is a labelled release of a project.
// Invariant: IsPublished implies PublishedAt != nil.
type Version struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Version     string     `json:"version"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	Slug        *string    `json:"slug"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (v *Version) State() State {
	if v.IsPublished {
		return StatePublished
	}
	return StateDraft
}

// Publish moves the version to PUBLISHED. Republishing refreshes PublishedAt.
func (v *Version) Publish(now time.Time) {
	t := now.UTC()
	v.IsPublished = true
	v.PublishedAt = &t
}

func (v *Version) SlugValue() string {
	if v.Slug == nil {
		return ""
	}
	return *v.Slug
}

// CreateVersionRequest represents data needed to create a new version
type CreateVersionRequest struct {
	Version     string
	Title       string
	Description string
	ImageURL    string
	IsPublished bool
}

// UpdateVersionRequest carries PATCH fields; nil means untouched.
type UpdateVersionRequest struct {
	Version     *string
	Title       *string
	Description *string
	ImageURL    *string
	Slug        *string
}

// Page is the saved content tree and settings of exactly one version.
type Page struct {
	VersionID string          `json:"-"`
	Content   json.RawMessage `json:"content"`
	Settings  json.RawMessage `json:"settings"`
}

var (
	EmptyContent  = json.RawMessage(`{"rows":[]}`)
	EmptySettings = json.RawMessage(`{}`)
)

// EmptyPage is what a version without a saved page reads as.
func EmptyPage(versionID string) *Page {
	return &Page{VersionID: versionID, Content: EmptyContent, Settings: EmptySettings}
}

// Section is an ordered container of blocks within one version's page.
type Section struct {
	ID              string    `json:"id"`
	VersionID       string    `json:"versionId"`
	Title           string    `json:"title"`
	Order           int       `json:"order"`
	Layout          string    `json:"layout"`
	BackgroundColor string    `json:"backgroundColor"`
	AccentColor     string    `json:"accentColor"`
	Padding         string    `json:"padding"`
	Blocks          []Block   `json:"blocks"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Block is the smallest content unit inside a section.
type Block struct {
	ID        string          `json:"id"`
	SectionID string          `json:"sectionId"`
	Type      string          `json:"type"`
	Order     int             `json:"order"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

const (
	DefaultLayout  = "default"
	DefaultPadding = "medium"
)

type CreateSectionRequest struct {
	Title           string
	Order           *int
	Layout          string
	BackgroundColor string
	AccentColor     string
	Padding         string
}

type UpdateSectionRequest struct {
	Title           *string
	Order           *int
	Layout          *string
	BackgroundColor *string
	AccentColor     *string
	Padding         *string
}

type CreateBlockRequest struct {
	Type  string
	Order *int
	Data  json.RawMessage
}

type UpdateBlockRequest struct {
	Type  *string
	Order *int
	Data  json.RawMessage
}

// SortSections orders by (Order, CreatedAt, ID). Order values may be sparse or duplicated.
func SortSections(s []Section) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Order != s[j].Order {
			return s[i].Order < s[j].Order
		}
		if !s[i].CreatedAt.Equal(s[j].CreatedAt) {
			return s[i].CreatedAt.Before(s[j].CreatedAt)
		}
		return s[i].ID < s[j].ID
	})
}

// SortBlocks applies the same ordering policy as SortSections.
func SortBlocks(b []Block) {
	sort.SliceStable(b, func(i, j int) bool {
		if b[i].Order != b[j].Order {
			return b[i].Order < b[j].Order
		}
		if !b[i].CreatedAt.Equal(b[j].CreatedAt) {
			return b[i].CreatedAt.Before(b[j].CreatedAt)
		}
		return b[i].ID < b[j].ID
	})
}

// BackfillResult reports one slug assigned by the backfill job.
type BackfillResult struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Slug    string `json:"slug"`
}

// PublicProject is the subset of a project exposed on public update pages.
type PublicProject struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// PublicUpdate is the data a public update page renders.
type PublicUpdate struct {
	Project  PublicProject `json:"project"`
	Version  Version       `json:"version"`
	Page     Page          `json:"page"`
	Sections []Section     `json:"sections"`
}

// PublicProjectUpdates lists the published versions of one project.
type PublicProjectUpdates struct {
	Project  PublicProject `json:"project"`
	Versions []Version     `json:"versions"`
}
