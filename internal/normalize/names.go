package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// NormalizeName lowercases, collapses whitespace, and trims the input.
// Used to prepare free-form labels for keyword matching.
func NormalizeName(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	return multiSpace.ReplaceAllString(s, " ")
}
