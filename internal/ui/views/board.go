package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/tgienger/taskboard/internal/dnd"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/projection"
	"github.com/tgienger/taskboard/internal/store"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

// BoardView shows one column per status. A card is moved by grabbing it,
// walking it to another column and dropping it there.
type BoardView struct {
	store  *store.Store
	styles *styles.Styles
	keys   keys.KeyMap

	groups  projection.Groups
	col     int
	row     int
	focusID string

	// drag state; grabbed is nil when nothing is held
	grabbed   *dnd.Location
	grabbedID string
	target    dnd.Location

	width  int
	height int
}

// NewBoardView creates the board
func NewBoardView(st *store.Store) *BoardView {
	return &BoardView{
		store:  st,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		groups: projection.GroupByStatus(nil),
	}
}

// SetSize sets the drawable area
func (v *BoardView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetTasks regroups the visible tasks. The focused card is found again even
// when it changed column.
func (v *BoardView) SetTasks(tasks []models.Task) {
	v.groups = projection.GroupByStatus(tasks)
	// a held card that vanished from the projection can't be dropped
	if v.grabbed != nil && !v.holds(v.grabbedID) {
		v.grabbed = nil
		v.grabbedID = ""
	}
	if v.focusID != "" {
		for c, g := range v.groups {
			for r, t := range g.Tasks {
				if t.ID == v.focusID {
					v.col, v.row = c, r
					return
				}
			}
		}
	}
	v.clampRow()
}

func (v *BoardView) holds(id string) bool {
	for _, g := range v.groups {
		for _, t := range g.Tasks {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}

// Dragging reports whether a card is currently held
func (v *BoardView) Dragging() bool {
	return v.grabbed != nil
}

// Selected returns the focused card
func (v *BoardView) Selected() (models.Task, bool) {
	if v.col < 0 || v.col >= len(v.groups) {
		return models.Task{}, false
	}
	tasks := v.groups[v.col].Tasks
	if v.row < 0 || v.row >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[v.row], true
}

func (v *BoardView) clampRow() {
	v.col = clamp(v.col, 0, len(v.groups)-1)
	n := len(v.groups[v.col].Tasks)
	v.row = clamp(v.row, 0, max(n-1, 0))
	if t, ok := v.Selected(); ok {
		v.focusID = t.ID
	} else {
		v.focusID = ""
	}
}

// Update handles a key press
func (v *BoardView) Update(msg tea.KeyMsg) tea.Cmd {
	if v.grabbed != nil {
		return v.updateDragging(msg)
	}

	switch {
	case key.Matches(msg, v.keys.Left):
		v.col--
		v.clampRow()
	case key.Matches(msg, v.keys.Right):
		v.col++
		v.clampRow()
	case key.Matches(msg, v.keys.Up):
		v.row--
		v.clampRow()
	case key.Matches(msg, v.keys.Down):
		v.row++
		v.clampRow()
	case key.Matches(msg, v.keys.Grab):
		if t, ok := v.Selected(); ok {
			loc := dnd.Location{Zone: t.Status, Index: v.row}
			v.grabbed = &loc
			v.grabbedID = t.ID
			v.target = loc
		}
	case key.Matches(msg, v.keys.Enter):
		if t, ok := v.Selected(); ok {
			return openTask(t)
		}
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

func (v *BoardView) updateDragging(msg tea.KeyMsg) tea.Cmd {
	statuses := models.Statuses()
	zone := v.target.Zone.Index()

	switch {
	case key.Matches(msg, v.keys.Left):
		zone = clamp(zone-1, 0, len(statuses)-1)
		v.target = dnd.Location{Zone: statuses[zone], Index: v.insertionLimit(statuses[zone])}
	case key.Matches(msg, v.keys.Right):
		zone = clamp(zone+1, 0, len(statuses)-1)
		v.target = dnd.Location{Zone: statuses[zone], Index: v.insertionLimit(statuses[zone])}
	case key.Matches(msg, v.keys.Up):
		v.target.Index = max(v.target.Index-1, 0)
	case key.Matches(msg, v.keys.Down):
		v.target.Index = min(v.target.Index+1, v.insertionLimit(v.target.Zone))
	case key.Matches(msg, v.keys.Grab), key.Matches(msg, v.keys.Enter):
		dest := v.target
		v.drop(&dest)
	case key.Matches(msg, v.keys.Back):
		// released outside every zone
		v.drop(nil)
	}
	return nil
}

// insertionLimit is the last index a card can be dropped at in zone
func (v *BoardView) insertionLimit(zone models.TaskStatus) int {
	n := len(v.groups.Bucket(zone))
	if v.grabbed != nil && zone == v.grabbed.Zone {
		return max(n-1, 0)
	}
	return n
}

func (v *BoardView) drop(dest *dnd.Location) {
	ev := dnd.DropEvent{Source: *v.grabbed, Destination: dest, ItemID: v.grabbedID}
	v.focusID = v.grabbedID
	v.grabbed = nil
	v.grabbedID = ""

	if v.store.ApplyDrop(ev) {
		log.Debug().Str("task", ev.ItemID).Str("to", string(dest.Zone)).Msg("card dropped")
	}
}

// View renders the columns side by side
func (v *BoardView) View() string {
	s := v.styles
	n := len(v.groups)
	colWidth := max(v.width/n-2, 16)
	cardWidth := colWidth - 4

	cols := make([]string, n)
	for c, g := range v.groups {
		var b strings.Builder
		b.WriteString(s.StatusBadge(g.Status))
		b.WriteString(s.TitleMuted.Render(fmt.Sprintf(" (%d)", len(g.Tasks))))
		b.WriteString("\n\n")

		dropHere := v.grabbed != nil && v.target.Zone == g.Status
		slot := dropHere && v.target != *v.grabbed
		shown := 0
		for r, t := range g.Tasks {
			if slot && v.target.Index == shown && t.ID != v.grabbedID {
				b.WriteString(v.renderDropSlot(cardWidth) + "\n")
				slot = false
			}
			b.WriteString(v.renderCard(t, c, r, cardWidth) + "\n")
			if t.ID != v.grabbedID {
				shown++
			}
		}
		if slot && v.target.Index >= shown {
			b.WriteString(v.renderDropSlot(cardWidth) + "\n")
		}
		if len(g.Tasks) == 0 && !dropHere {
			b.WriteString(s.TitleMuted.Render("No tasks"))
		}

		style := s.Column
		if c == v.col || dropHere {
			style = s.ColumnFocus
		}
		cols[c] = style.Width(colWidth).Height(max(v.height-2, 3)).Render(strings.TrimRight(b.String(), "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (v *BoardView) renderCard(t models.Task, col, row int, width int) string {
	s := v.styles
	style := s.Card
	switch {
	case t.ID == v.grabbedID:
		style = s.CardGhost
	case v.grabbed == nil && col == v.col && row == v.row:
		style = s.CardFocus
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.Truncate(t.Title, width),
		styles.Truncate(taskMeta(s, t), width),
	)
	return style.Width(width).Render(body)
}

func (v *BoardView) renderDropSlot(width int) string {
	return v.styles.CardGhost.Width(width).Render("drop here")
}
