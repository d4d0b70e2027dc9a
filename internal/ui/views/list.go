package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/projection"
	"github.com/tgienger/taskboard/internal/store"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

// listRow is either a group header (task == nil) or a task line
type listRow struct {
	status models.TaskStatus
	task   *models.Task
}

func (r listRow) id() string {
	if r.task == nil {
		return "group:" + string(r.status)
	}
	return r.task.ID
}

// ListView shows the tasks grouped by status with collapsible groups
type ListView struct {
	store  *store.Store
	styles *styles.Styles
	keys   keys.KeyMap

	groups    projection.Groups
	collapsed map[models.TaskStatus]bool
	rows      []listRow
	cursor    int
	scrollY   int
	focusID   string

	width  int
	height int
}

// NewListView creates the grouped list
func NewListView(st *store.Store) *ListView {
	return &ListView{
		store:     st,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		groups:    projection.GroupByStatus(nil),
		collapsed: map[models.TaskStatus]bool{},
	}
}

// SetSize sets the drawable area
func (v *ListView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.ensureVisible()
}

// SetTasks regroups the visible tasks and keeps the cursor on the same row
func (v *ListView) SetTasks(tasks []models.Task) {
	v.groups = projection.GroupByStatus(tasks)
	v.rebuild()
}

// Collapsed reports whether a status group is folded
func (v *ListView) Collapsed(status models.TaskStatus) bool {
	return v.collapsed[status]
}

// Selected returns the task under the cursor
func (v *ListView) Selected() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) || v.rows[v.cursor].task == nil {
		return models.Task{}, false
	}
	return *v.rows[v.cursor].task, true
}

func (v *ListView) rebuild() {
	v.rows = v.rows[:0]
	for _, g := range v.groups {
		v.rows = append(v.rows, listRow{status: g.Status})
		if v.collapsed[g.Status] {
			continue
		}
		for i := range g.Tasks {
			v.rows = append(v.rows, listRow{status: g.Status, task: &g.Tasks[i]})
		}
	}

	v.cursor = clamp(v.cursor, 0, len(v.rows)-1)
	if v.focusID != "" {
		for i, r := range v.rows {
			if r.id() == v.focusID {
				v.cursor = i
				break
			}
		}
	}
	v.syncFocus()
	v.ensureVisible()
}

func (v *ListView) syncFocus() {
	if v.cursor >= 0 && v.cursor < len(v.rows) {
		v.focusID = v.rows[v.cursor].id()
	}
}

func (v *ListView) move(delta int) {
	v.cursor = clamp(v.cursor+delta, 0, len(v.rows)-1)
	v.syncFocus()
	v.ensureVisible()
}

func (v *ListView) toggle(status models.TaskStatus) {
	v.collapsed[status] = !v.collapsed[status]
	v.focusID = "group:" + string(status)
	v.rebuild()
}

// ensureVisible keeps the cursor within the scroll window
func (v *ListView) ensureVisible() {
	visible := v.visibleRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
	v.scrollY = max(v.scrollY, 0)
}

func (v *ListView) visibleRows() int {
	// each task takes two lines
	return max(v.height/2, 1)
}

// Update handles a key press
func (v *ListView) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.move(-1)
	case key.Matches(msg, v.keys.Down):
		v.move(1)
	case key.Matches(msg, v.keys.Collapse):
		if v.cursor < len(v.rows) {
			v.toggle(v.rows[v.cursor].status)
		}
	case key.Matches(msg, v.keys.Enter):
		if v.cursor >= len(v.rows) {
			return nil
		}
		row := v.rows[v.cursor]
		if row.task == nil {
			v.toggle(row.status)
			return nil
		}
		return openTask(*row.task)
	case key.Matches(msg, v.keys.Status):
		if t, ok := v.Selected(); ok {
			cycleStatus(v.store, t, 1)
		}
	case key.Matches(msg, v.keys.StatusBack):
		if t, ok := v.Selected(); ok {
			cycleStatus(v.store, t, -1)
		}
	case key.Matches(msg, v.keys.Priority):
		if t, ok := v.Selected(); ok {
			cyclePriority(v.store, t, 1)
		}
	case key.Matches(msg, v.keys.PriorityBack):
		if t, ok := v.Selected(); ok {
			cyclePriority(v.store, t, -1)
		}
	}
	return nil
}

// View renders the list
func (v *ListView) View() string {
	s := v.styles
	width := max(v.width, 20)

	var b strings.Builder
	lines := 0
	limit := max(v.height, 2)
	for i, row := range v.rows {
		if i < v.scrollY {
			continue
		}
		if lines >= limit {
			break
		}
		selected := i == v.cursor

		if row.task == nil {
			n := len(v.groups.Bucket(row.status))
			arrow := "▾"
			if v.collapsed[row.status] {
				arrow = "▸"
			}
			header := fmt.Sprintf("%s %s (%d)", arrow, s.StatusBadge(row.status), n)
			if selected {
				header = s.ListSelected.Width(width).Render(header)
			} else {
				header = s.GroupHeader.Render(header)
			}
			b.WriteString(header + "\n")
			lines++
			if n == 0 && !v.collapsed[row.status] {
				b.WriteString(s.TitleMuted.Render("    No tasks in this status") + "\n")
				lines++
			}
			continue
		}

		t := *row.task
		title := styles.Truncate(t.Title, width-6)
		meta := taskMeta(s, t)
		if selected {
			b.WriteString(s.ListSelected.Width(width).Render(title) + "\n")
		} else {
			b.WriteString(s.ListItem.Render(title) + "\n")
		}
		b.WriteString("    " + styles.Truncate(meta, width-4) + "\n")
		lines += 2
	}
	return strings.TrimRight(b.String(), "\n")
}
