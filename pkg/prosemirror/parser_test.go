package prosemirror

import (
	"strings"
	"testing"
)

const sampleDoc = `{
	"type": "doc",
	"content": [
		{"type": "heading", "attrs": {"level": 2}, "content": [{"type": "text", "text": "Getting Started"}]},
		{"type": "paragraph", "content": [
			{"type": "text", "text": "Install the "},
			{"type": "text", "text": "CLI", "marks": [{"type": "bold"}]},
			{"type": "text", "text": " first."}
		]},
		{"type": "bulletList", "content": [
			{"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "step one"}]}]},
			{"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "step two"}]}]}
		]}
	]
}`

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "nested document",
			content: sampleDoc,
			want:    "Getting Started Install the CLI first. step one step two",
		},
		{
			name:    "plain text content",
			content: "not a prosemirror doc",
			want:    "",
		},
		{
			name:    "malformed json",
			content: `{"type": "doc", "content": [`,
			want:    "",
		},
		{
			name:    "empty document",
			content: `{"type": "doc", "content": []}`,
			want:    "",
		},
		{
			name:    "wrong root type",
			content: `{"type": "paragraph", "content": []}`,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractText(tt.content)
			if got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderMarkdown(t *testing.T) {
	r := NewRenderer()
	md := r.Render(sampleDoc)

	checks := []string{
		"## Getting Started",
		"Install the **CLI** first.",
		"- step one",
		"- step two",
	}
	for _, want := range checks {
		if !strings.Contains(md, want) {
			t.Errorf("rendered markdown missing %q\ngot:\n%s", want, md)
		}
	}
}

func TestRenderFallback(t *testing.T) {
	r := NewRenderer()

	// Non-JSON content passes through untouched
	plain := "# Already markdown\n\nbody"
	if got := r.Render(plain); got != plain {
		t.Errorf("Render(plain) = %q, want passthrough", got)
	}

	// Broken JSON also falls back to the original string
	broken := `{"type": "doc", "content": [`
	if got := r.Render(broken); got != broken {
		t.Errorf("Render(broken) = %q, want passthrough", got)
	}
}

func TestRenderTaskListAndCode(t *testing.T) {
	doc := `{
		"type": "doc",
		"content": [
			{"type": "taskList", "content": [
				{"type": "taskItem", "attrs": {"checked": true}, "content": [{"type": "paragraph", "content": [{"type": "text", "text": "done"}]}]},
				{"type": "taskItem", "attrs": {"checked": false}, "content": [{"type": "paragraph", "content": [{"type": "text", "text": "todo"}]}]}
			]},
			{"type": "codeBlock", "attrs": {"language": "go"}, "content": [{"type": "text", "text": "fmt.Println(1)"}]}
		]
	}`

	md := NewRenderer().Render(doc)
	for _, want := range []string{"- [x] done", "- [ ] todo", "```go\nfmt.Println(1)\n```"} {
		if !strings.Contains(md, want) {
			t.Errorf("rendered markdown missing %q\ngot:\n%s", want, md)
		}
	}
}
