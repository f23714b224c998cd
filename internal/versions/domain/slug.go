package domain

import "github.com/playpulse/playpulse-backend/internal/slug"

// FallbackSlug is used when label and title slugify to nothing.
const FallbackSlug = "version"

// GenerateSlug derives the base slug of a version from "{version}-{title}".
func GenerateSlug(version, title string) string {
	return slug.Make(version + "-" + title)
}

// BaseSlug is GenerateSlug with the fallback applied.
func BaseSlug(version, title string) string {
	if s := GenerateSlug(version, title); s != "" {
		return s
	}
	return FallbackSlug
}

// ReleaseTitle is the title of the VERSION_RELEASE update appended when a version is created.
func ReleaseTitle(version string) string {
	return "Released " + version
}
