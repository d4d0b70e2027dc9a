package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/projection"
)

const dueFormat = "Jan 2"

func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}

func taskLine(t models.Task) string {
	parts := []string{t.ID, truncate(t.Title, 40), "[" + string(t.Priority) + "]"}
	if t.Assignee != nil {
		parts = append(parts, "@"+t.Assignee.Name)
	}
	if t.DueDate != nil {
		parts = append(parts, "due "+t.DueDate.Format(dueFormat))
	}
	if tags := tagSummary(t.Tags, 2); tags != "" {
		parts = append(parts, tags)
	}
	return strings.Join(parts, "  ")
}

// tagSummary shows the first n tags and counts the rest
func tagSummary(tags []string, n int) string {
	if len(tags) == 0 {
		return ""
	}
	shown := tags[:min(n, len(tags))]
	out := "#" + strings.Join(shown, " #")
	if rest := len(tags) - len(shown); rest > 0 {
		out += fmt.Sprintf(" +%d", rest)
	}
	return out
}

var columnTitles = map[projection.Column]string{
	projection.ColumnTitle:    "TITLE",
	projection.ColumnStatus:   "STATUS",
	projection.ColumnPriority: "PRIORITY",
	projection.ColumnAssignee: "ASSIGNEE",
	projection.ColumnDueDate:  "DUE",
}

func columnHeaders(state projection.SortState) []string {
	title := func(c projection.Column) string {
		h := columnTitles[c]
		if state.Column == c {
			if state.Desc {
				return h + " ↓"
			}
			return h + " ↑"
		}
		return h
	}
	return []string{
		"ID",
		title(projection.ColumnStatus),
		title(projection.ColumnTitle),
		title(projection.ColumnPriority),
		title(projection.ColumnAssignee),
		title(projection.ColumnDueDate),
		"TAGS",
		"PROGRESS",
		"COMMENTS",
	}
}

func tableRow(t models.Task) []string {
	assignee := "-"
	if t.Assignee != nil {
		assignee = t.Assignee.Name
	}
	due := "-"
	if t.DueDate != nil {
		due = t.DueDate.Format(dueFormat)
	}
	progress := "-"
	if done, total := t.SubtaskProgress(); total > 0 {
		progress = fmt.Sprintf("%d%%", done*100/total)
	}
	return []string{
		t.ID,
		t.Status.Label(),
		truncate(t.Title, 36),
		string(t.Priority),
		assignee,
		due,
		tagSummary(t.Tags, 2),
		progress,
		fmt.Sprint(t.CommentCount()),
	}
}
