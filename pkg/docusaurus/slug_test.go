package docusaurus

import (
	"regexp"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Getting Started", "getting-started"},
		{"punctuation stripped", "What's New? (v2)", "whats-new-v2"},
		{"existing hyphens", "already-a-slug", "already-a-slug"},
		{"whitespace runs", "  lots   of \t space ", "lots-of-space"},
		{"underscores", "snake_case_title", "snake-case-title"},
		{"symbols only", "!!! ???", "untitled"},
		{"empty", "", "untitled"},
		{"mixed case", "API Reference", "api-reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugifyIdempotentAndSafe(t *testing.T) {
	safe := regexp.MustCompile(`^[a-z0-9-]+$`)

	inputs := []string{
		"Getting Started", "What's New? (v2)", "UPPER CASE", "a", "日本語 Guide",
		"trailing-hyphen-", "-leading", "double--hyphen", "under_score",
	}
	for _, in := range inputs {
		once := Slugify(in)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", in, once, twice)
		}
		if !safe.MatchString(once) {
			t.Errorf("Slugify(%q) = %q contains characters outside [a-z0-9-]", in, once)
		}
	}
}
