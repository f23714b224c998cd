// Package slug turns free text into URL-safe identifiers.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxLength bounds a generated base slug. Collision suffixes may extend past it.
const MaxLength = 50

var (
	dropRe     = regexp.MustCompile(`[^a-z0-9\s_-]+`)
	separateRe = regexp.MustCompile(`[\s_-]+`)
)

// Make lower-cases s, drops punctuation, collapses whitespace, underscore and hyphen runs into a
// single hyphen and truncates to MaxLength. "1.0 Launch" becomes "10-launch".
func Make(s string) string {
	s = strings.ToLower(s)
	s = dropRe.ReplaceAllString(s, "")
	s = separateRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}

// Candidate returns the n-th collision candidate for base: base, base-1, base-2, ...
func Candidate(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
