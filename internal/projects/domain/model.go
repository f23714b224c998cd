package domain

import (
	"strings"
	"time"
)

// Visibility controls whether a project's published updates are reachable publicly.
type Visibility string

const (
	VisibilityPrivate  Visibility = "PRIVATE"
	VisibilityUnlisted Visibility = "UNLISTED"
	VisibilityPublic   Visibility = "PUBLIC"
)

func ParseVisibility(s string) (Visibility, bool) {
	switch v := Visibility(strings.ToUpper(strings.TrimSpace(s))); v {
	case VisibilityPrivate, VisibilityUnlisted, VisibilityPublic:
		return v, true
	}
	return "", false
}

// Project is the root aggregate for ownership checks. Versions, pages and the release log hang off it.
type Project struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"ownerUserId"`
	Name        string     `json:"name"`
	Slug        *string    `json:"slug"`
	Description string     `json:"description"`
	Visibility  Visibility `json:"visibility"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateProjectRequest represents data needed to create a new project
type CreateProjectRequest struct {
	Name        string
	Description string
	Visibility  Visibility
}

// UpdateProjectRequest carries the fields a PATCH may change; nil means untouched.
type UpdateProjectRequest struct {
	Name        *string
	Description *string
	Visibility  *Visibility
}

func (r *UpdateProjectRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Visibility == nil
}

// UpdateType tags a ProjectUpdate.
type UpdateType string

const (
	UpdateVersionRelease  UpdateType = "VERSION_RELEASE"
	UpdateSettingsChanged UpdateType = "SETTINGS_CHANGED"
)

// ProjectUpdate is an append-only audit event tied to a project.
type ProjectUpdate struct {
	ID          string                 `json:"id"`
	ProjectID   string                 `json:"projectId"`
	Type        UpdateType             `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"createdAt"`
}
