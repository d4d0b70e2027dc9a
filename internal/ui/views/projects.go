package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

type projectItem struct {
	project models.Project
	tasks   int
	current bool
}

func (i projectItem) Title() string {
	title := i.project.Icon + " " + i.project.Name
	if i.project.IsFavorite {
		title += " ★"
	}
	return title
}

func (i projectItem) Description() string {
	if i.tasks == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", i.tasks)
}

func (i projectItem) FilterValue() string { return i.project.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	title := p.Title()
	if p.current {
		title += "  (current)"
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(title), descStyle.Render(p.Description()))
}

// ProjectPicker lets the user switch the current project
type ProjectPicker struct {
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
}

// NewProjectPicker creates an empty picker
func NewProjectPicker() *ProjectPicker {
	s := styles.NewStyles()

	// Setup custom delegate
	delegate := &projectDelegate{styles: s, width: 60}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return &ProjectPicker{
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
	}
}

// SetSize sets the drawable area
func (v *ProjectPicker) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.delegate.width = width
	v.list.SetSize(width-4, max(height-4, 6))
}

// SetProjects replaces the entries. counts maps project id to task count.
func (v *ProjectPicker) SetProjects(projects []models.Project, counts map[string]int, currentID string) {
	items := make([]list.Item, len(projects))
	selected := v.list.Index()
	for i, p := range projects {
		items[i] = projectItem{project: p, tasks: counts[p.ID], current: p.ID == currentID}
	}
	v.list.SetItems(items)
	v.list.Select(clamp(selected, 0, max(len(items)-1, 0)))
}

// Focus moves the cursor to the current project
func (v *ProjectPicker) Focus() {
	for i, it := range v.list.Items() {
		if p, ok := it.(projectItem); ok && p.current {
			v.list.Select(i)
			return
		}
	}
}

// Update handles a key press
func (v *ProjectPicker) Update(msg tea.KeyMsg) tea.Cmd {
	// while filtering, keys belong to the filter input
	if v.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		if v.list.FilterState() == list.FilterApplied {
			v.list.ResetFilter()
			return nil
		}
		return func() tea.Msg { return PickerClosed{} }
	case key.Matches(msg, v.keys.Enter):
		if item, ok := v.list.SelectedItem().(projectItem); ok {
			return func() tea.Msg {
				return SelectedProject{Project: item.project}
			}
		}
		return nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

// View renders the picker
func (v *ProjectPicker) View() string {
	if len(v.list.Items()) == 0 {
		return v.styles.TitleMuted.Render("No projects")
	}
	help := v.styles.Help.Render(
		fmt.Sprintf("%s select • %s filter • %s close",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("esc"),
		),
	)
	return v.styles.FilterBar.Render(v.list.View() + "\n" + help)
}
