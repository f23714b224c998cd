package http

import (
	"encoding/json"

	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

type createVersionReq struct {
	Version     string `json:"version" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	IsPublished bool   `json:"isPublished"`
}

func (r createVersionReq) toDomain() domain.CreateVersionRequest {
	return domain.CreateVersionRequest{
		Version:     r.Version,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		IsPublished: r.IsPublished,
	}
}

type updateVersionReq struct {
	Version     *string `json:"version"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	Slug        *string `json:"slug"`
}

func (r updateVersionReq) toDomain() domain.UpdateVersionRequest {
	return domain.UpdateVersionRequest{
		Version:     r.Version,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Slug:        r.Slug,
	}
}

// savePageReq keeps content and settings raw so the stored text is exactly what the client sent.
type savePageReq struct {
	Content  json.RawMessage `json:"content"`
	Settings json.RawMessage `json:"settings"`
}

type createSectionReq struct {
	Title           string `json:"title"`
	Order           *int   `json:"order"`
	Layout          string `json:"layout"`
	BackgroundColor string `json:"backgroundColor"`
	AccentColor     string `json:"accentColor"`
	Padding         string `json:"padding"`
}

func (r createSectionReq) toDomain() domain.CreateSectionRequest {
	return domain.CreateSectionRequest{
		Title:           r.Title,
		Order:           r.Order,
		Layout:          r.Layout,
		BackgroundColor: r.BackgroundColor,
		AccentColor:     r.AccentColor,
		Padding:         r.Padding,
	}
}

type updateSectionReq struct {
	Title           *string `json:"title"`
	Order           *int    `json:"order"`
	Layout          *string `json:"layout"`
	BackgroundColor *string `json:"backgroundColor"`
	AccentColor     *string `json:"accentColor"`
	Padding         *string `json:"padding"`
}

func (r updateSectionReq) toDomain() domain.UpdateSectionRequest {
	return domain.UpdateSectionRequest{
		Title:           r.Title,
		Order:           r.Order,
		Layout:          r.Layout,
		BackgroundColor: r.BackgroundColor,
		AccentColor:     r.AccentColor,
		Padding:         r.Padding,
	}
}

type createBlockReq struct {
	Type  string          `json:"type" binding:"required"`
	Order *int            `json:"order"`
	Data  json.RawMessage `json:"data"`
}

type updateBlockReq struct {
	Type  *string         `json:"type"`
	Order *int            `json:"order"`
	Data  json.RawMessage `json:"data"`
}
