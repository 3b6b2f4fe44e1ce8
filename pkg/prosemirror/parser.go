package prosemirror

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse decodes a raw ProseMirror JSON string into a document tree.
func Parse(jsonContent string) (*Doc, error) {
	var doc Doc
	if err := json.Unmarshal([]byte(jsonContent), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse prosemirror json: %w", err)
	}
	if doc.Type != "doc" {
		return nil, fmt.Errorf("unexpected root node type %q", doc.Type)
	}
	return &doc, nil
}

// ExtractText flattens a document into plain text: a depth-first walk over
// the tree, concatenating every text leaf separated by single spaces.
// Malformed or non-JSON content yields an empty string rather than an error,
// so a single broken page never poisons a whole analysis run.
func ExtractText(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return ""
	}

	doc, err := Parse(trimmed)
	if err != nil {
		return ""
	}

	var parts []string
	for _, child := range doc.Content {
		collectText(child, &parts)
	}
	return strings.Join(parts, " ")
}

func collectText(node Node, parts *[]string) {
	if node.Type == "text" {
		if t := strings.TrimSpace(node.Text); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for _, child := range node.Content {
		collectText(child, parts)
	}
}
