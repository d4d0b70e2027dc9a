package views

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/projection"
	"github.com/tgienger/taskboard/internal/store"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

// tableColumn ties a header to its sort key; unsortable columns have none
type tableColumn struct {
	title  string
	sortBy projection.Column
	weight int
}

var tableColumns = []tableColumn{
	{title: "Title", sortBy: projection.ColumnTitle, weight: 5},
	{title: "Status", sortBy: projection.ColumnStatus, weight: 2},
	{title: "Priority", sortBy: projection.ColumnPriority, weight: 2},
	{title: "Assignee", sortBy: projection.ColumnAssignee, weight: 3},
	{title: "Due", sortBy: projection.ColumnDueDate, weight: 2},
	{title: "Tags", weight: 3},
	{title: "Progress", weight: 2},
	{title: "Comments", weight: 2},
}

// TableView shows the visible tasks as sortable rows
type TableView struct {
	store  *store.Store
	styles *styles.Styles
	keys   keys.KeyMap

	table   table.Model
	tasks   []models.Task
	sorted  []models.Task
	sort    projection.SortState
	focusID string

	width  int
	height int
}

// NewTableView creates the table
func NewTableView(st *store.Store) *TableView {
	s := styles.NewStyles()

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Current.Border).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(styles.Current.Primary).
		Background(styles.Current.Selection).
		Bold(true)

	t := table.New(
		table.WithFocused(true),
		table.WithStyles(ts),
	)

	v := &TableView{
		store:  st,
		styles: s,
		keys:   keys.DefaultKeyMap(),
		table:  t,
	}
	v.layout()
	return v
}

// SetSize sets the drawable area
func (v *TableView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.layout()
}

// SetTasks replaces the rows and keeps the cursor on the same task
func (v *TableView) SetTasks(tasks []models.Task) {
	v.tasks = tasks
	v.apply()
}

// Sort returns the active sort
func (v *TableView) Sort() projection.SortState {
	return v.sort
}

// Rows returns the tasks in display order
func (v *TableView) Rows() []models.Task {
	return slices.Clone(v.sorted)
}

// Selected returns the task under the cursor
func (v *TableView) Selected() (models.Task, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.sorted) {
		return models.Task{}, false
	}
	return v.sorted[i], true
}

func (v *TableView) layout() {
	width := max(v.width, 60)
	total := 0
	for _, c := range tableColumns {
		total += c.weight
	}
	// cell padding eats two columns per cell
	avail := width - 2*len(tableColumns)

	cols := make([]table.Column, len(tableColumns))
	for i, c := range tableColumns {
		cols[i] = table.Column{
			Title: v.header(c),
			Width: max(avail*c.weight/total, 6),
		}
	}
	v.table.SetColumns(cols)
	v.table.SetWidth(width)
	v.table.SetHeight(max(v.height-1, 3))
}

func (v *TableView) header(c tableColumn) string {
	if c.sortBy == "" || v.sort.Column != c.sortBy {
		return c.title
	}
	if v.sort.Desc {
		return c.title + " ↓"
	}
	return c.title + " ↑"
}

func (v *TableView) apply() {
	v.sorted = projection.Sort(v.tasks, v.sort)

	rows := make([]table.Row, len(v.sorted))
	for i, t := range v.sorted {
		rows[i] = v.row(t)
	}
	v.table.SetRows(rows)
	v.layout()

	cursor := clamp(v.table.Cursor(), 0, max(len(v.sorted)-1, 0))
	if v.focusID != "" {
		if i := slices.IndexFunc(v.sorted, func(t models.Task) bool { return t.ID == v.focusID }); i >= 0 {
			cursor = i
		}
	}
	v.table.SetCursor(cursor)
	v.syncFocus()
}

func (v *TableView) row(t models.Task) table.Row {
	progress := "-"
	if done, total := t.SubtaskProgress(); total > 0 {
		progress = fmt.Sprintf("%d%%", done*100/total)
	}
	due := orDash(dueLabel(t))
	return table.Row{
		t.Title,
		t.Status.Label(),
		capitalize(string(t.Priority)),
		assigneeName(t),
		due,
		orDash(tagsLabel(t.Tags)),
		progress,
		fmt.Sprintf("%d", t.CommentCount()),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (v *TableView) syncFocus() {
	if t, ok := v.Selected(); ok {
		v.focusID = t.ID
	}
}

func (v *TableView) toggle(c projection.Column) {
	v.sort = v.sort.Toggle(c)
	v.apply()
}

// nextColumn moves the sort to the following sortable column
func (v *TableView) nextColumn() {
	cols := projection.Columns()
	if !v.sort.Active() {
		v.toggle(cols[0])
		return
	}
	v.sort = projection.SortState{Column: models.Cycle(cols, v.sort.Column, 1)}
	v.apply()
}

// Update handles a key press
func (v *TableView) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Enter):
		if t, ok := v.Selected(); ok {
			return openTask(t)
		}
		return nil
	case key.Matches(msg, v.keys.SortTitle):
		v.toggle(projection.ColumnTitle)
		return nil
	case key.Matches(msg, v.keys.SortDue):
		v.toggle(projection.ColumnDueDate)
		return nil
	case key.Matches(msg, v.keys.SortNext):
		v.nextColumn()
		return nil
	case key.Matches(msg, v.keys.Status):
		if t, ok := v.Selected(); ok {
			cycleStatus(v.store, t, 1)
		}
		return nil
	case key.Matches(msg, v.keys.StatusBack):
		if t, ok := v.Selected(); ok {
			cycleStatus(v.store, t, -1)
		}
		return nil
	case key.Matches(msg, v.keys.Priority):
		if t, ok := v.Selected(); ok {
			cyclePriority(v.store, t, 1)
		}
		return nil
	case key.Matches(msg, v.keys.PriorityBack):
		if t, ok := v.Selected(); ok {
			cyclePriority(v.store, t, -1)
		}
		return nil
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	v.syncFocus()
	return cmd
}

// View renders the table
func (v *TableView) View() string {
	if len(v.sorted) == 0 {
		return v.table.View() + "\n" + v.styles.TitleMuted.Render("  No tasks match")
	}
	return v.table.View()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
