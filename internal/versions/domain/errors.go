package domain

import "errors"

var (
	ErrVersionNotFound = errors.New("version not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrBlockNotFound   = errors.New("block not found")
	// ErrSlugTaken is returned when the store rejects a (project, slug) pair; callers retry with
	// the next candidate.
	ErrSlugTaken = errors.New("version slug already taken")
)
