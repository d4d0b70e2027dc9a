package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/store"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// OpenTask asks the app to show a task in the modal
type OpenTask struct {
	Task models.Task
}

// CloseTask asks the app to close the modal
type CloseTask struct{}

// SelectedProject is emitted when a project is picked
type SelectedProject struct {
	Project models.Project
}

// PickerClosed is emitted when the project picker is dismissed
type PickerClosed struct{}

func openTask(t models.Task) tea.Cmd {
	return func() tea.Msg {
		return OpenTask{Task: t}
	}
}

// cycleStatus moves a task one step through the statuses
func cycleStatus(st *store.Store, t models.Task, step int) {
	next := models.Cycle(models.Statuses(), t.Status, step)
	if _, err := st.SetTaskStatus(t.ID, next); err != nil {
		log.Warn().Err(err).Str("task", t.ID).Msg("status change rejected")
	}
}

// cyclePriority moves a task one step through the priorities
func cyclePriority(st *store.Store, t models.Task, step int) {
	next := models.Cycle(models.Priorities(), t.Priority, step)
	if _, err := st.SetTaskPriority(t.ID, next); err != nil {
		log.Warn().Err(err).Str("task", t.ID).Msg("priority change rejected")
	}
}

func assigneeName(t models.Task) string {
	if t.Assignee == nil {
		return "Unassigned"
	}
	return t.Assignee.Name
}

func avatar(u models.User) string {
	style := lipgloss.NewStyle().Bold(true)
	if u.Color != "" {
		style = style.Foreground(lipgloss.Color(u.Color))
	}
	return style.Render(u.Initial())
}

func dueLabel(t models.Task) string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format("Jan 2")
}

func progressLabel(t models.Task) string {
	done, total := t.SubtaskProgress()
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", done, total)
}

// tagsLabel shows the first two tags and how many more there are
func tagsLabel(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	shown := tags[:min(len(tags), 2)]
	label := "#" + strings.Join(shown, " #")
	if rest := len(tags) - len(shown); rest > 0 {
		label += fmt.Sprintf(" +%d", rest)
	}
	return label
}

// taskMeta is the one-line summary shown under a title
func taskMeta(s *styles.Styles, t models.Task) string {
	parts := []string{s.PriorityBadge(t.Priority)}
	if t.Assignee != nil {
		parts = append(parts, avatar(*t.Assignee))
	}
	if d := dueLabel(t); d != "" {
		parts = append(parts, s.TitleMuted.Render(d))
	}
	if p := progressLabel(t); p != "" {
		parts = append(parts, s.TitleMuted.Render("☑ "+p))
	}
	if n := t.CommentCount(); n > 0 {
		parts = append(parts, s.TitleMuted.Render(fmt.Sprintf("✎ %d", n)))
	}
	if tags := tagsLabel(t.Tags); tags != "" {
		parts = append(parts, s.TitleMuted.Render(tags))
	}
	return strings.Join(parts, " ")
}
