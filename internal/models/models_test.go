package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskboard/internal/models"
)

func TestAnchorKeyIsDerivedFromID(t *testing.T) {
	t.Parallel()

	task := models.Task{ID: "t42"}
	assert.Equal(t, "task-card-t42", task.AnchorKey())
	assert.Equal(t, task.AnchorKey(), models.AnchorKey("t42"))
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]models.TaskStatus{
		"todo":         models.StatusTodo,
		" In Progress": models.StatusInProgress,
		"in_progress":  models.StatusInProgress,
		"DONE":         models.StatusDone,
		"blocked":      models.StatusBlocked,
	}
	for in, want := range cases {
		got, err := models.ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := models.ParseStatus("archived")
	var unknown models.UnknownStatusError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "archived", unknown.Value)
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	p, err := models.ParsePriority("4")
	require.NoError(t, err)
	assert.Equal(t, models.PriorityUrgent, p)

	_, err = models.ParsePriority("critical")
	assert.Error(t, err)
}

func TestPriorityRankOrdering(t *testing.T) {
	t.Parallel()

	assert.Less(t, models.PriorityLow.Rank(), models.PriorityMedium.Rank())
	assert.Less(t, models.PriorityMedium.Rank(), models.PriorityHigh.Rank())
	assert.Less(t, models.PriorityHigh.Rank(), models.PriorityUrgent.Rank())
}

func TestStatusesAreInColumnOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []models.TaskStatus{
		models.StatusTodo, models.StatusInProgress, models.StatusDone, models.StatusBlocked,
	}, models.Statuses())
	assert.Equal(t, "In Progress", models.StatusInProgress.Label())
	assert.Equal(t, 3, models.StatusBlocked.Index())
}

func TestCycleWraps(t *testing.T) {
	t.Parallel()

	s := models.Statuses()
	assert.Equal(t, models.StatusTodo, models.Cycle(s, models.StatusBlocked, 1))
	assert.Equal(t, models.StatusBlocked, models.Cycle(s, models.StatusTodo, -1))
	assert.Equal(t, models.StatusTodo, models.Cycle(s, models.TaskStatus("bogus"), 1))
}

func TestSubtaskProgressAndCommentCount(t *testing.T) {
	t.Parallel()

	task := models.Task{
		Subtasks: []models.Subtask{{Completed: true}, {}, {Completed: true}},
		Comments: []models.Comment{{Replies: []models.Comment{{}, {}}}, {}},
	}
	done, total := task.SubtaskProgress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)
	assert.Equal(t, 4, task.CommentCount())
}

func TestCloneDoesNotAlias(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	orig := models.Task{
		ID:       "t1",
		Assignee: &models.User{ID: "u1", Name: "Ana"},
		DueDate:  &due,
		Tags:     []string{"api"},
		Subtasks: []models.Subtask{{ID: "s1"}},
		Comments: []models.Comment{{ID: "c1", Replies: []models.Comment{{ID: "r1"}}}},
	}

	c := orig.Clone()
	c.Assignee.Name = "Bo"
	*c.DueDate = due.AddDate(0, 0, 1)
	c.Tags[0] = "ui"
	c.Subtasks[0].Completed = true
	c.Comments[0].Replies[0].Text = "changed"

	assert.Equal(t, "Ana", orig.Assignee.Name)
	assert.Equal(t, due, *orig.DueDate)
	assert.Equal(t, "api", orig.Tags[0])
	assert.False(t, orig.Subtasks[0].Completed)
	assert.Empty(t, orig.Comments[0].Replies[0].Text)
}

func TestUserInitial(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Á", models.User{Name: "ágata"}.Initial())
	assert.Equal(t, "?", models.User{}.Initial())
}
