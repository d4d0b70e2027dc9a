package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/tgienger/taskboard/internal/collab"
	"github.com/tgienger/taskboard/internal/modal"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/store"
	"github.com/tgienger/taskboard/internal/ui/keys"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

type threadLoadedMsg struct {
	taskID   string
	comments []models.Comment
	err      error
}

type commentPostedMsg struct {
	taskID  string
	comment models.Comment
	err     error
}

// TaskModal shows one task's details and its comment thread
type TaskModal struct {
	ctx     context.Context
	store   *store.Store
	modal   *modal.Modal
	session *collab.Session
	styles  *styles.Styles
	keys    keys.KeyMap
	now     func() time.Time

	thread    []models.Comment
	threadFor string
	offline   bool
	cursor    int // selected top-level comment

	input     textarea.Model
	composing bool
	replyTo   string
	err       error

	width  int
	height int
}

// NewTaskModal wires the modal state machine to the store and a
// collaboration session. session may be nil, in which case comments are read
// from the task.
func NewTaskModal(ctx context.Context, st *store.Store, m *modal.Modal, session *collab.Session) *TaskModal {
	input := textarea.New()
	input.Placeholder = "Add a comment..."
	input.CharLimit = 2000
	input.SetWidth(50)
	input.SetHeight(3)
	input.ShowLineNumbers = false

	return &TaskModal{
		ctx:     ctx,
		store:   st,
		modal:   m,
		session: session,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		now:     time.Now,
		input:   input,
	}
}

// SetSize sets the drawable area
func (v *TaskModal) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(clamp(width-10, 20, 70))
}

// IsOpen reports whether the modal is visible
func (v *TaskModal) IsOpen() bool {
	return v.modal.IsOpen()
}

// Composing reports whether the comment input has focus
func (v *TaskModal) Composing() bool {
	return v.composing
}

// Task returns the selected task, which outlives Close until the clear
func (v *TaskModal) Task() *models.Task {
	t, _ := v.modal.State()
	return t
}

// Thread returns the comments currently shown
func (v *TaskModal) Thread() []models.Comment {
	return v.thread
}

// Open shows task and loads its thread
func (v *TaskModal) Open(t models.Task) tea.Cmd {
	v.modal.Open(t)
	if v.threadFor != t.ID {
		v.thread = nil
		v.cursor = 0
	}
	v.threadFor = t.ID
	v.err = nil
	v.stopComposing()
	return v.loadThread(t)
}

// Close hides the modal; the task stays selected until the deferred clear
func (v *TaskModal) Close() {
	v.stopComposing()
	v.modal.Close()
}

// Refresh replaces the shown task with its latest version
func (v *TaskModal) Refresh(t models.Task) {
	v.modal.Refresh(t)
}

// Cleared drops everything cached for the last task
func (v *TaskModal) Cleared() {
	if task, _ := v.modal.State(); task != nil {
		return
	}
	v.thread = nil
	v.threadFor = ""
	v.cursor = 0
	v.err = nil
	v.input.Reset()
}

func (v *TaskModal) stopComposing() {
	v.composing = false
	v.replyTo = ""
	v.input.Blur()
}

func (v *TaskModal) available() bool {
	return v.session != nil && v.session.Available()
}

func (v *TaskModal) loadThread(t models.Task) tea.Cmd {
	if !v.available() {
		comments := t.Comments
		return func() tea.Msg {
			return threadLoadedMsg{taskID: t.ID, comments: comments, err: collab.ErrUnavailable}
		}
	}
	ctx, session, anchor := v.ctx, v.session, t.AnchorKey()
	return func() tea.Msg {
		comments, err := session.Thread(ctx, anchor)
		return threadLoadedMsg{taskID: t.ID, comments: comments, err: err}
	}
}

func (v *TaskModal) submit() tea.Cmd {
	text := strings.TrimSpace(v.input.Value())
	if text == "" {
		return nil
	}
	task, _ := v.modal.State()
	if task == nil {
		return nil
	}

	ctx, session, anchor, parent := v.ctx, v.session, task.AnchorKey(), v.replyTo
	id := task.ID
	return func() tea.Msg {
		if session == nil {
			return commentPostedMsg{taskID: id, err: collab.ErrUnavailable}
		}
		var (
			c   models.Comment
			err error
		)
		if parent != "" {
			c, err = session.Reply(ctx, anchor, parent, text)
		} else {
			c, err = session.AddComment(ctx, anchor, text)
		}
		return commentPostedMsg{taskID: id, comment: c, err: err}
	}
}

// Update handles keys while the modal is open and the thread messages
func (v *TaskModal) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case threadLoadedMsg:
		if msg.taskID != v.threadFor {
			return nil
		}
		v.offline = errors.Is(msg.err, collab.ErrUnavailable)
		if msg.err != nil && !v.offline {
			v.err = msg.err
			return nil
		}
		v.thread = msg.comments
		v.cursor = clamp(v.cursor, 0, max(len(v.thread)-1, 0))
		return nil

	case commentPostedMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Str("task", msg.taskID).Msg("comment not posted")
			v.err = msg.err
			return nil
		}
		v.err = nil
		v.input.Reset()
		v.stopComposing()
		if task, _ := v.modal.State(); task != nil && task.ID == msg.taskID {
			return v.loadThread(*task)
		}
		return nil

	case tea.KeyMsg:
		if v.composing {
			return v.updateComposing(msg)
		}
		return v.updateViewing(msg)
	}
	return nil
}

func (v *TaskModal) updateComposing(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.stopComposing()
		return nil
	case key.Matches(msg, v.keys.Submit):
		return v.submit()
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

func (v *TaskModal) updateViewing(msg tea.KeyMsg) tea.Cmd {
	task, _ := v.modal.State()
	switch {
	case key.Matches(msg, v.keys.Back):
		return func() tea.Msg { return CloseTask{} }
	case task != nil && key.Matches(msg, v.keys.Status):
		cycleStatus(v.store, *task, 1)
	case task != nil && key.Matches(msg, v.keys.StatusBack):
		cycleStatus(v.store, *task, -1)
	case task != nil && key.Matches(msg, v.keys.Priority):
		cyclePriority(v.store, *task, 1)
	case task != nil && key.Matches(msg, v.keys.PriorityBack):
		cyclePriority(v.store, *task, -1)
	case key.Matches(msg, v.keys.Up):
		v.cursor = max(v.cursor-1, 0)
	case key.Matches(msg, v.keys.Down):
		v.cursor = clamp(v.cursor+1, 0, max(len(v.thread)-1, 0))
	case key.Matches(msg, v.keys.Comment):
		return v.compose("")
	case key.Matches(msg, v.keys.Reply):
		if v.cursor < len(v.thread) {
			return v.compose(v.thread[v.cursor].ID)
		}
	}
	return nil
}

func (v *TaskModal) compose(parentID string) tea.Cmd {
	if !v.available() {
		v.err = collab.ErrUnavailable
		return nil
	}
	v.err = nil
	v.composing = true
	v.replyTo = parentID
	return v.input.Focus()
}

// View renders the open modal
func (v *TaskModal) View() string {
	task, open := v.modal.State()
	if !open || task == nil {
		return ""
	}

	s := v.styles
	t := *task
	textWidth := clamp(v.width-10, 20, 70)
	labelStyle := s.TitleMuted

	descText := t.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}

	tagsLine := "None"
	if len(t.Tags) > 0 {
		tags := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			tags[i] = s.Tag.Render("#" + tag)
		}
		tagsLine = strings.Join(tags, "")
	}

	due := "No due date"
	if t.DueDate != nil {
		due = t.DueDate.Format("Mon Jan 2, 2006") + " (" + humanize.RelTime(*t.DueDate, v.now(), "ago", "from now") + ")"
	}

	content := []string{
		s.Title.Render(t.Title),
		"",
		s.StatusBadge(t.Status) + "   " + s.PriorityBadge(t.Priority),
		"",
		labelStyle.Render("Assignee") + "  " + assigneeName(t),
		labelStyle.Render("Due") + "       " + due,
		labelStyle.Render("Tags") + "      " + tagsLine,
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
	}

	if _, total := t.SubtaskProgress(); total > 0 {
		content = append(content, "", v.renderSubtasks(t))
	}

	content = append(content,
		"",
		labelStyle.Render("Comments"),
		v.renderThread(textWidth),
	)

	if v.composing {
		label := "New comment"
		if v.replyTo != "" {
			label = "Reply"
		}
		content = append(content, "", labelStyle.Render(label), s.InputFocused.Render(v.input.View()))
	}
	if v.err != nil {
		content = append(content, "", lipgloss.NewStyle().Foreground(styles.Current.Error).Render(v.err.Error()))
	}

	content = append(content,
		"",
		s.TitleMuted.Render(fmt.Sprintf("Created %s • Updated %s",
			humanize.RelTime(t.CreatedAt, v.now(), "ago", "from now"),
			humanize.RelTime(t.UpdatedAt, v.now(), "ago", "from now"))),
		"",
		v.renderHelp(),
	)

	return s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

func (v *TaskModal) renderSubtasks(t models.Task) string {
	done, total := t.SubtaskProgress()
	lines := []string{v.styles.TitleMuted.Render(fmt.Sprintf("Subtasks %d/%d", done, total))}
	for _, st := range t.Subtasks {
		box := "[ ]"
		if st.Completed {
			box = "[x]"
		}
		lines = append(lines, box+" "+st.Title)
	}
	return strings.Join(lines, "\n")
}

func (v *TaskModal) renderThread(width int) string {
	s := v.styles
	if len(v.thread) == 0 {
		return s.TitleMuted.Render("No comments yet")
	}

	var lines []string
	for i, c := range v.thread {
		lines = append(lines, v.renderComment(c, width, i == v.cursor, ""))
		for _, r := range c.Replies {
			lines = append(lines, v.renderComment(r, width-4, false, "    "))
		}
	}
	if v.offline {
		lines = append(lines, s.TitleMuted.Render("Collaboration offline, comments are read-only"))
	}
	return strings.Join(lines, "\n")
}

func (v *TaskModal) renderComment(c models.Comment, width int, selected bool, indent string) string {
	s := v.styles
	marker := "  "
	if selected {
		marker = s.HelpKey.Render("▸ ")
	}
	head := marker + avatar(c.Author) + " " + c.Author.Name + " " +
		s.TitleMuted.Render(humanize.RelTime(c.Timestamp, v.now(), "ago", "from now"))
	body := lipgloss.NewStyle().Width(max(width-2, 10)).Render(c.Text)
	return indent + head + "\n" + indent + "  " + strings.ReplaceAll(body, "\n", "\n"+indent+"  ")
}

func (v *TaskModal) renderHelp() string {
	s := v.styles
	if v.composing {
		return s.Help.Render(
			fmt.Sprintf("%s submit • %s cancel",
				s.HelpKey.Render("ctrl+s"),
				s.HelpKey.Render("esc"),
			),
		)
	}
	return s.Help.Render(
		fmt.Sprintf("%s status • %s priority • %s comment • %s reply • %s select • %s close",
			s.HelpKey.Render("s/S"),
			s.HelpKey.Render("p/P"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("↑/↓"),
			s.HelpKey.Render("esc"),
		),
	)
}
