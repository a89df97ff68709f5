// Package naming turns free-form user input into a project identifier that
// is safe as a directory name, an npm package name and a GitHub repo name.
package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Sanitize normalizes raw into a lowercase token made of [a-z0-9_-] that
// never starts or ends with a hyphen. It trims, lowercases, turns each
// whitespace run into one hyphen and drops everything else outside the
// allowed set. The result may be empty; callers must treat that as invalid.
// Sanitize is idempotent.
func Sanitize(raw string) string {
	s := lower.String(strings.TrimSpace(raw))
	s = strings.Join(strings.Fields(s), "-")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isAllowed(r) {
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "-")
}

// IsSanitized reports whether name is already in sanitized form and non-empty.
func IsSanitized(name string) bool {
	return name != "" && Sanitize(name) == name
}

func isAllowed(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}
