package docusaurus

import (
	"regexp"
	"strings"
)

var (
	invalidSlugChars = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRun    = regexp.MustCompile(`[\s_]+`)
	hyphenRun        = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a page or category title into a filesystem-safe name:
// everything outside word characters, spaces and hyphens is stripped,
// whitespace collapses to single hyphens, and the result is lower-cased.
// Idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(title string) string {
	s := invalidSlugChars.ReplaceAllString(title, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	s = strings.ToLower(strings.Trim(s, "-"))
	if s == "" {
		return "untitled"
	}
	return s
}
