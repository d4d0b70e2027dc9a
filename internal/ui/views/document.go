package views

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskboard/internal/document"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

// DocumentView shows the project's documentation page
type DocumentView struct {
	renderer *document.Renderer
	styles   *styles.Styles
	viewport viewport.Model

	project  string
	markdown string
}

// NewDocumentView creates the document page using the given glamour style
func NewDocumentView(style string) *DocumentView {
	return &DocumentView{
		renderer: document.NewRenderer(style),
		styles:   styles.NewStyles(),
		viewport: viewport.New(80, 20),
	}
}

// SetSize sets the drawable area
func (v *DocumentView) SetSize(width, height int) {
	v.viewport.Width = max(width, 20)
	v.viewport.Height = max(height, 3)
	v.render()
}

// SetProject switches the page to a project; nil shows the empty state
func (v *DocumentView) SetProject(p *models.Project) {
	name := ""
	if p != nil {
		name = p.Name
	}
	if name == v.project && v.markdown != "" {
		return
	}
	v.project = name
	v.markdown = ""
	if p != nil {
		v.markdown = document.Markdown(document.Template(p.Name))
	}
	v.render()
	v.viewport.GotoTop()
}

// Markdown returns the source of the current page
func (v *DocumentView) Markdown() string {
	return v.markdown
}

func (v *DocumentView) render() {
	if v.markdown == "" {
		v.viewport.SetContent(v.styles.TitleMuted.Render("No project selected"))
		return
	}
	v.viewport.SetContent(v.renderer.Render(v.markdown, v.viewport.Width))
}

// Update scrolls the page
func (v *DocumentView) Update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// View renders the page
func (v *DocumentView) View() string {
	return v.viewport.View()
}
