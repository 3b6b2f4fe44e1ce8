package prosemirror

import (
	"fmt"
	"strings"
)

// Renderer handles ProseMirror JSON to Markdown conversion
type Renderer struct{}

// NewRenderer creates a new renderer instance
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render converts a ProseMirror JSON string to Markdown.
// Content that is not a parsable document is returned unchanged, so plain
// markdown pages pass through untouched.
func (r *Renderer) Render(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return content
	}

	doc, err := Parse(trimmed)
	if err != nil {
		// Fallback to original content if parsing fails
		return content
	}

	var sb strings.Builder
	for _, child := range doc.Content {
		r.walkNode(child, &sb, 0)
	}
	return sb.String()
}

// walkNode traverses the tree and writes markdown
func (r *Renderer) walkNode(node Node, sb *strings.Builder, depth int) {
	switch node.Type {
	case "paragraph":
		for _, child := range node.Content {
			r.walkNode(child, sb, depth)
		}
		sb.WriteString("\n\n")

	case "heading":
		level := node.IntAttr("level", 1)
		if level < 1 {
			level = 1
		} else if level > 6 {
			level = 6
		}
		sb.WriteString(strings.Repeat("#", level))
		sb.WriteString(" ")
		for _, child := range node.Content {
			r.walkNode(child, sb, depth)
		}
		sb.WriteString("\n\n")

	case "text":
		r.handleText(node, sb)

	case "bulletList", "orderedList", "taskList":
		r.handleList(node, sb, depth)

	case "listItem", "taskItem":
		// Fallback if encountered loose
		for _, child := range node.Content {
			r.walkNode(child, sb, depth)
		}

	case "blockquote":
		var inner strings.Builder
		for _, child := range node.Content {
			r.walkNode(child, &inner, depth)
		}
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			sb.WriteString("> " + line + "\n")
		}
		sb.WriteString("\n")

	case "codeBlock":
		lang := node.StringAttr("language")
		sb.WriteString("```" + lang + "\n")
		for _, child := range node.Content {
			sb.WriteString(child.Text)
		}
		sb.WriteString("\n```\n\n")

	case "table":
		r.handleTable(node, sb)

	case "horizontalRule":
		sb.WriteString("---\n\n")

	case "hardBreak":
		sb.WriteString("\n")

	case "image":
		alt := node.StringAttr("alt")
		src := node.StringAttr("src")
		sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", alt, src))

	default:
		// Generic recursion
		for _, child := range node.Content {
			r.walkNode(child, sb, depth)
		}
	}
}

func (r *Renderer) handleText(node Node, sb *strings.Builder) {
	text := node.Text

	isCode := node.HasMark("code")
	isBold := node.HasMark("bold")
	isItalic := node.HasMark("italic")
	isStrike := node.HasMark("strike")
	linkHref := node.MarkAttr("link", "href")

	// Apply wrappers (Code > Bold > Italic > Strike)
	if isCode {
		sb.WriteString("`" + text + "`")
		return
	}

	if isBold {
		text = "**" + text + "**"
	}
	if isItalic {
		text = "_" + text + "_"
	}
	if isStrike {
		text = "~~" + text + "~~"
	}
	if linkHref != "" {
		text = fmt.Sprintf("[%s](%s)", text, linkHref)
	}

	sb.WriteString(text)
}

func (r *Renderer) handleList(node Node, sb *strings.Builder, depth int) {
	ordered := node.Type == "orderedList"
	task := node.Type == "taskList"
	index := node.IntAttr("start", 1)

	for _, child := range node.Content {
		if child.Type != "listItem" && child.Type != "taskItem" {
			continue
		}

		// Indentation for nested lists (2 spaces per depth level)
		sb.WriteString(strings.Repeat("  ", depth))

		switch {
		case ordered:
			sb.WriteString(fmt.Sprintf("%d. ", index))
			index++
		case task:
			if child.BoolAttr("checked") {
				sb.WriteString("- [x] ")
			} else {
				sb.WriteString("- [ ] ")
			}
		default:
			sb.WriteString("- ")
		}

		// List item content: paragraphs render inline, nested lists recurse
		for _, grandChild := range child.Content {
			switch grandChild.Type {
			case "bulletList", "orderedList", "taskList":
				sb.WriteString("\n")
				r.handleList(grandChild, sb, depth+1)
			case "paragraph":
				for _, inline := range grandChild.Content {
					r.walkNode(inline, sb, depth)
				}
			default:
				r.walkNode(grandChild, sb, depth)
			}
		}
		sb.WriteString("\n")
	}
	if depth == 0 {
		sb.WriteString("\n")
	}
}

func (r *Renderer) handleTable(node Node, sb *strings.Builder) {
	var rows [][]string
	maxCols := 0

	for _, row := range node.Content {
		if row.Type != "tableRow" {
			continue
		}

		var rowData []string
		for _, cell := range row.Content {
			var cellSb strings.Builder
			for _, content := range cell.Content {
				r.walkNode(content, &cellSb, 0)
			}
			// Newlines break MD tables
			clean := strings.TrimSpace(strings.ReplaceAll(cellSb.String(), "\n", " "))
			rowData = append(rowData, clean)
		}
		rows = append(rows, rowData)
		if len(rowData) > maxCols {
			maxCols = len(rowData)
		}
	}

	if len(rows) == 0 {
		return
	}

	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i := 0; i < maxCols; i++ {
			if i < len(cells) {
				sb.WriteString(" " + cells[i] + " |")
			} else {
				sb.WriteString("  |")
			}
		}
		sb.WriteString("\n")
	}

	// Row 0 doubles as the header
	writeRow(rows[0])
	sb.WriteString("|")
	for i := 0; i < maxCols; i++ {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")
	for i := 1; i < len(rows); i++ {
		writeRow(rows[i])
	}
	sb.WriteString("\n")
}
