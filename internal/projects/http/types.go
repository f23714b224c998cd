package http

import (
	"strings"

	"github.com/playpulse/playpulse-backend/internal/projects/domain"
)

type createProjectReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

func (r createProjectReq) toDomain() (domain.CreateProjectRequest, error) {
	out := domain.CreateProjectRequest{Name: r.Name, Description: r.Description}
	if strings.TrimSpace(r.Visibility) != "" {
		v, ok := domain.ParseVisibility(r.Visibility)
		if !ok {
			return out, domain.NewValidationError("visibility", "must be PRIVATE, UNLISTED or PUBLIC")
		}
		out.Visibility = v
	}
	return out, nil
}

type updateProjectReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Visibility  *string `json:"visibility"`
}

func (r updateProjectReq) toDomain() (domain.UpdateProjectRequest, error) {
	out := domain.UpdateProjectRequest{Name: r.Name, Description: r.Description}
	if r.Visibility != nil {
		v, ok := domain.ParseVisibility(*r.Visibility)
		if !ok {
			return out, domain.NewValidationError("visibility", "must be PRIVATE, UNLISTED or PUBLIC")
		}
		out.Visibility = &v
	}
	return out, nil
}
