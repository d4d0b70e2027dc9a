package projection

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/tgienger/taskboard/internal/models"
)

// Column is a sortable table column
type Column string

const (
	ColumnTitle    Column = "title"
	ColumnStatus   Column = "status"
	ColumnPriority Column = "priority"
	ColumnAssignee Column = "assignee"
	ColumnDueDate  Column = "due"
)

// Columns lists the sortable columns
func Columns() []Column {
	return []Column{ColumnTitle, ColumnStatus, ColumnPriority, ColumnAssignee, ColumnDueDate}
}

// ParseColumn converts a flag value into a Column
func ParseColumn(s string) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title", "name":
		return ColumnTitle, nil
	case "status":
		return ColumnStatus, nil
	case "priority":
		return ColumnPriority, nil
	case "assignee":
		return ColumnAssignee, nil
	case "due", "duedate", "due-date", "due_date":
		return ColumnDueDate, nil
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

// SortState is the table's active sort. The zero value means unsorted.
type SortState struct {
	Column Column
	Desc   bool
}

// Active reports whether a column is selected
func (s SortState) Active() bool {
	return s.Column != ""
}

// Toggle is what clicking a column header does: a new column sorts
// ascending, and an ascending column flips to descending and back.
func (s SortState) Toggle(c Column) SortState {
	if s.Column == c && !s.Desc {
		return SortState{Column: c, Desc: true}
	}
	return SortState{Column: c}
}

// Sort returns a stably sorted copy. Tasks with equal keys keep their input
// order in both directions.
func Sort(tasks []models.Task, state SortState) []models.Task {
	out := slices.Clone(tasks)
	if !state.Active() {
		return out
	}
	compare := comparator(state.Column)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		if state.Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

func comparator(c Column) func(a, b models.Task) int {
	switch c {
	case ColumnStatus:
		return func(a, b models.Task) int { return cmp.Compare(a.Status.Index(), b.Status.Index()) }
	case ColumnPriority:
		return func(a, b models.Task) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) }
	case ColumnAssignee:
		return func(a, b models.Task) int {
			switch {
			case a.Assignee == nil && b.Assignee == nil:
				return 0
			case a.Assignee == nil:
				return 1
			case b.Assignee == nil:
				return -1
			}
			return cmp.Compare(strings.ToLower(a.Assignee.Name), strings.ToLower(b.Assignee.Name))
		}
	case ColumnDueDate:
		return func(a, b models.Task) int {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
			return a.DueDate.Compare(*b.DueDate)
		}
	default:
		return func(a, b models.Task) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	}
}
