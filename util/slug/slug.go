// Package slug derives the human-readable identifiers used for posts and categories.
package slug

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// Make lowercases s and replaces every whitespace run with a single hyphen.
// Other characters are kept as they are, so the result is not always URL-safe.
func Make(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(s), "-")
}
