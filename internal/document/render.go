package document

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

const minWidth = 20

// Renderer turns markdown into styled terminal text. Glamour renderers are
// cached per width; building one with an auto style can query the terminal.
type Renderer struct {
	style string

	mu    sync.Mutex
	cache map[string]*glamour.TermRenderer
}

// NewRenderer uses one of glamour's standard style names. Empty selects the
// dark style.
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = styles.DarkStyle
	}
	return &Renderer{
		style: style,
		cache: make(map[string]*glamour.TermRenderer),
	}
}

// Render wraps md at width. Rendering errors fall back to the raw markdown.
func (r *Renderer) Render(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	width = max(width, minWidth)

	tr, err := r.renderer(width)
	if err != nil {
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func (r *Renderer) renderer(width int) (*glamour.TermRenderer, error) {
	key := r.style + ":" + strconv.Itoa(width)

	r.mu.Lock()
	defer r.mu.Unlock()
	if tr, ok := r.cache[key]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.cache[key] = tr
	return tr, nil
}

// Cached reports how many renderers have been built
func (r *Renderer) Cached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}
