package seed_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/seed"
)

var quiet = seed.WithLogger(zerolog.Nop())

func TestDefaultDataset(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	ds, err := seed.Default(quiet)
	require.NoError(t, err)

	assert.Len(ds.Users, 5)
	assert.Len(ds.ActiveUsers, 4)
	require.NotEmpty(t, ds.Projects)
	assert.Equal("p1", ds.Projects[0].ID)
	assert.True(ds.Projects[0].IsFavorite)

	byID := map[string]models.Task{}
	for _, task := range ds.Tasks {
		byID[task.ID] = task
		assert.True(task.Status.Valid(), task.ID)
		assert.True(task.Priority.Valid(), task.ID)
		assert.False(task.UpdatedAt.Before(task.CreatedAt), task.ID)
	}

	t1 := byID["t1"]
	require.NotNil(t, t1.Assignee)
	assert.Equal("Sarah Chen", t1.Assignee.Name)
	require.NotNil(t, t1.DueDate)
	assert.Equal(time.Date(2026, 11, 2, 17, 0, 0, 0, time.UTC), t1.DueDate.UTC())
	done, total := t1.SubtaskProgress()
	assert.Equal(2, done)
	assert.Equal(3, total)
	require.Len(t, t1.Comments, 1)
	assert.Equal("Marcus Johnson", t1.Comments[0].Author.Name)
	require.Len(t, t1.Comments[0].Replies, 1)
	assert.Equal("u1", t1.Comments[0].Replies[0].Author.ID)

	assert.Nil(byID["t3"].Assignee)
	assert.Nil(byID["t3"].DueDate)
}

func TestDatasetUser(t *testing.T) {
	t.Parallel()

	ds, err := seed.Default(quiet)
	require.NoError(t, err)
	u, ok := ds.User("u4")
	assert.True(t, ok)
	assert.Equal(t, "David Kim", u.Name)
	_, ok = ds.User("nobody")
	assert.False(t, ok)
}

const minimal = `
active_users = ["a"]

[[users]]
id = "a"
name = "Ana"

[[projects]]
id = "p"
name = "P"

[[tasks]]
id = "t"
title = "T"
status = "%s"
priority = "%s"
assignee = "%s"
created = 2026-01-01T00:00:00Z
project = "%s"
`

func load(status, priority, assignee, project string, opts ...seed.Option) (seed.Dataset, error) {
	doc := fmt.Sprintf(minimal, status, priority, assignee, project)
	return seed.Load(strings.NewReader(doc), opts...)
}

func TestLoadDefaultsAndNormalizes(t *testing.T) {
	t.Parallel()

	ds, err := load("In Progress", "", "a", "p", quiet)
	require.NoError(t, err)
	require.Len(t, ds.Tasks, 1)
	task := ds.Tasks[0]
	assert.Equal(t, models.StatusInProgress, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.Equal(t, models.UserOffline, ds.Users[0].Status)
}

func TestLoadRejectsBadReferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                                string
		status, priority, assignee, project string
	}{
		{"status", "someday", "low", "a", "p"},
		{"priority", "todo", "critical", "a", "p"},
		{"assignee", "todo", "low", "zed", "p"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := load(tt.status, tt.priority, tt.assignee, tt.project, quiet)
			assert.Error(t, err)
		})
	}
}

func TestLoadKeepsTaskWithUnknownProject(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ds, err := load("todo", "low", "", "ghost", seed.WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)
	require.Len(t, ds.Tasks, 1)
	assert.Equal(t, "ghost", ds.Tasks[0].ProjectID)
	assert.Contains(t, buf.String(), "unknown project")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := seed.Load(strings.NewReader("[[users]]\nid = \"a\"\nshoe_size = 9\n"), quiet)
	assert.Error(t, err)
}

func TestLoadRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := seed.Load(strings.NewReader("[[projects]]\nid = \"p\"\n[[projects]]\nid = \"p\"\n"), quiet)
	assert.ErrorContains(t, err, "duplicate project")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[projects]]\nid = \"solo\"\nname = \"Solo\"\n"), 0o644))

	ds, err := seed.LoadFile(path, quiet)
	require.NoError(t, err)
	require.Len(t, ds.Projects, 1)
	assert.Equal(t, "Solo", ds.Projects[0].Name)

	_, err = seed.LoadFile(filepath.Join(t.TempDir(), "missing.toml"), quiet)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
