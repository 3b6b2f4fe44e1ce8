package docusaurus

import (
	"fmt"

	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/pkg/prosemirror"
)

// Renderer converts a page's structured content into publishable file
// content. The exporter treats it as an external collaborator.
type Renderer interface {
	Render(page *entity.Page) (string, error)
}

type markdownRenderer struct {
	renderer *prosemirror.Renderer
}

// NewMarkdownRenderer returns the default ProseMirror-to-Markdown renderer.
func NewMarkdownRenderer() Renderer {
	return &markdownRenderer{renderer: prosemirror.NewRenderer()}
}

func (m *markdownRenderer) Render(page *entity.Page) (string, error) {
	if page == nil {
		return "", fmt.Errorf("cannot render nil page")
	}
	body := m.renderer.Render(page.Content)
	return fmt.Sprintf("# %s\n\n%s", page.Title, body), nil
}
