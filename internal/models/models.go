package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// UserStatus is a collaborator's presence state
type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserAway    UserStatus = "away"
	UserOffline UserStatus = "offline"
)

// User represents a collaborator, not an authentication identity
type User struct {
	ID     string     `toml:"id"`
	Name   string     `toml:"name"`
	Email  string     `toml:"email"`
	Avatar string     `toml:"avatar"`
	Color  string     `toml:"color"`
	Status UserStatus `toml:"status"`
}

// Initial returns the first letter of the user's name, used as an avatar fallback
func (u User) Initial() string {
	for _, r := range u.Name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// Subtask is owned by its parent task
type Subtask struct {
	ID        string `toml:"id"`
	Title     string `toml:"title"`
	Completed bool   `toml:"completed"`
}

// Comment represents a comment on a task. Replies are a flat list; a reply
// never carries replies of its own.
type Comment struct {
	ID        string    `toml:"id"`
	Author    User      `toml:"-"`
	AuthorID  string    `toml:"author"`
	Text      string    `toml:"text"`
	Timestamp time.Time `toml:"timestamp"`
	Replies   []Comment `toml:"replies"`
}

// Project is a top-level grouping of tasks
type Project struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	Icon       string `toml:"icon"`
	Color      string `toml:"color"`
	IsFavorite bool   `toml:"favorite"`
}

// Task represents a single unit of trackable work
type Task struct {
	ID          string       `toml:"id"`
	Title       string       `toml:"title"`
	Description string       `toml:"description"`
	Status      TaskStatus   `toml:"status"`
	Priority    TaskPriority `toml:"priority"`
	Assignee    *User        `toml:"-"`
	AssigneeID  string       `toml:"assignee"`
	DueDate     *time.Time   `toml:"due"`
	Tags        []string     `toml:"tags"`
	Subtasks    []Subtask    `toml:"subtasks"`
	Comments    []Comment    `toml:"comments"`
	CreatedAt   time.Time    `toml:"created"`
	UpdatedAt   time.Time    `toml:"updated"`
	ProjectID   string       `toml:"project"`
}

// AnchorKey returns the stable key collaboration overlays bind to
func (t Task) AnchorKey() string {
	return AnchorKey(t.ID)
}

// AnchorKey derives the per-task anchor key from a task id
func AnchorKey(taskID string) string {
	return "task-card-" + taskID
}

// SubtaskProgress returns the number of completed subtasks and the total
func (t Task) SubtaskProgress() (completed, total int) {
	for _, st := range t.Subtasks {
		if st.Completed {
			completed++
		}
	}
	return completed, len(t.Subtasks)
}

// CommentCount counts top-level comments and their replies
func (t Task) CommentCount() int {
	n := len(t.Comments)
	for _, c := range t.Comments {
		n += len(c.Replies)
	}
	return n
}

// Clone returns a deep copy so updates never alias the original task
func (t Task) Clone() Task {
	c := t
	if t.Assignee != nil {
		a := *t.Assignee
		c.Assignee = &a
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	c.Tags = slices.Clone(t.Tags)
	c.Subtasks = slices.Clone(t.Subtasks)
	if t.Comments != nil {
		c.Comments = make([]Comment, len(t.Comments))
		for i, cm := range t.Comments {
			cm.Replies = slices.Clone(cm.Replies)
			c.Comments[i] = cm
		}
	}
	return c
}

// TaskStatus is the workflow state of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
)

var statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone, StatusBlocked}

var statusLabels = map[TaskStatus]string{
	StatusTodo:       "To Do",
	StatusInProgress: "In Progress",
	StatusDone:       "Done",
	StatusBlocked:    "Blocked",
}

// Statuses returns every status in board column order
func Statuses() []TaskStatus {
	return slices.Clone(statuses)
}

// Valid reports whether s is one of the four statuses
func (s TaskStatus) Valid() bool {
	return slices.Contains(statuses, s)
}

// Label returns the display name
func (s TaskStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Index returns the column position of s, or -1
func (s TaskStatus) Index() int {
	return slices.Index(statuses, s)
}

// UnknownStatusError is returned when parsing an unsupported status
type UnknownStatusError struct {
	Value string
}

func (e UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown status %q (want one of todo, in-progress, done, blocked)", e.Value)
}

// ParseStatus accepts the canonical ids and a few common spellings
func ParseStatus(s string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "to do", "to-do":
		return StatusTodo, nil
	case "in-progress", "in progress", "in_progress", "doing":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	case "blocked":
		return StatusBlocked, nil
	}
	return "", UnknownStatusError{Value: s}
}

// TaskPriority ranks urgency, low < medium < high < urgent
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

var priorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Priorities returns every priority from lowest to highest
func Priorities() []TaskPriority {
	return slices.Clone(priorities)
}

// Valid reports whether p is one of the four priorities
func (p TaskPriority) Valid() bool {
	return slices.Contains(priorities, p)
}

// Rank orders priorities; unknown values rank below low
func (p TaskPriority) Rank() int {
	return slices.Index(priorities, p)
}

// UnknownPriorityError is returned when parsing an unsupported priority
type UnknownPriorityError struct {
	Value string
}

func (e UnknownPriorityError) Error() string {
	return fmt.Sprintf("unknown priority %q (want one of low, medium, high, urgent)", e.Value)
}

// ParsePriority accepts names and 1-4 shorthands
func ParsePriority(s string) (TaskPriority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "1":
		return PriorityLow, nil
	case "medium", "med", "2":
		return PriorityMedium, nil
	case "high", "3":
		return PriorityHigh, nil
	case "urgent", "4":
		return PriorityUrgent, nil
	}
	return "", UnknownPriorityError{Value: s}
}

// Cycle returns the element after cur in values, wrapping around. A value not
// in the list maps to the first element.
func Cycle[T comparable](values []T, cur T, step int) T {
	i := slices.Index(values, cur)
	if i < 0 {
		return values[0]
	}
	n := len(values)
	return values[((i+step)%n+n)%n]
}
