package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/store"
)

// run executes a fresh command tree with logging disabled
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-file="))
	err := cmd.Execute()
	return out.String(), err
}

func TestLsDefaultsToListOfFirstProject(t *testing.T) {
	out, err := run(t, "ls")
	require.NoError(t, err)

	assert.Contains(t, out, "Website Redesign")
	assert.Contains(t, out, "To Do (2)")
	assert.Contains(t, out, "In Progress (1)")
	assert.Contains(t, out, "Done (1)")
	assert.Contains(t, out, "Blocked (1)")
	assert.Contains(t, out, "@Sarah Chen")
	assert.NotContains(t, out, "push notifications")
}

func TestLsProjectByName(t *testing.T) {
	out, err := run(t, "ls", "--project", "mobile app")
	require.NoError(t, err)

	assert.Contains(t, out, "Implement push notifications")
	assert.Contains(t, out, "Done (0)")
	assert.Contains(t, out, "No tasks in this status")
}

func TestLsUnknownProject(t *testing.T) {
	_, err := run(t, "ls", "--project", "nope")
	assert.ErrorIs(t, err, store.ErrProjectNotFound)
}

func TestLsTableSortedByDueDate(t *testing.T) {
	out, err := run(t, "ls", "--view", "table", "--sort", "due")
	require.NoError(t, err)

	assert.Contains(t, out, "DUE ↑")
	audit := strings.Index(out, "Accessibility audit")
	hero := strings.Index(out, "Design new landing page hero")
	analytics := strings.Index(out, "Set up analytics tracking")
	blog := strings.Index(out, "Migrate blog content")
	require.True(t, audit > 0 && hero > 0 && analytics > 0 && blog > 0)
	assert.Less(t, audit, hero)
	assert.Less(t, hero, analytics)
	assert.Less(t, analytics, blog, "undated tasks sort last")
	assert.Contains(t, out, "66%")
}

func TestLsTableDescending(t *testing.T) {
	out, err := run(t, "ls", "--view", "table", "--sort", "priority", "--desc")
	require.NoError(t, err)

	assert.Contains(t, out, "PRIORITY ↓")
	assert.Less(t, strings.Index(out, "Accessibility audit"), strings.Index(out, "Migrate blog content"))
}

func TestLsBoard(t *testing.T) {
	out, err := run(t, "--view", "board", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "To Do (2)")
	assert.Contains(t, out, "Update footer links")
}

func TestLsDocument(t *testing.T) {
	out, err := run(t, "ls", "--view", "docs", "-p", "p4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# API Platform Documentation\n"))
	assert.Contains(t, out, "## Getting Started")
}

func TestLsSearch(t *testing.T) {
	out, err := run(t, "ls", "--search", "analytics")
	require.NoError(t, err)
	assert.Contains(t, out, "Set up analytics tracking")
	assert.NotContains(t, out, "Migrate blog content")
}

func TestLsRejectsBadFlags(t *testing.T) {
	_, err := run(t, "ls", "--sort", "velocity")
	assert.Error(t, err)

	_, err = run(t, "ls", "--view", "gantt")
	assert.Error(t, err)
}

func TestLsWithSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	data := `
[[projects]]
id = "x"
name = "Solo"

[[tasks]]
id = "only"
title = "Lonely task"
status = "done"
project = "x"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	out, err := run(t, "ls", "--seed", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Solo")
	assert.Contains(t, out, "Lonely task")
}

func TestProjects(t *testing.T) {
	out, err := run(t, "projects")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "* p1"))
	assert.Contains(t, lines[0], "★")
	assert.Contains(t, lines[0], "(5 tasks)")
	assert.NotContains(t, lines[2], "★")
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2026-10-01")
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "taskboard 1.2.3 (commit: abc123, built: 2026-10-01)\n", out)
}

func TestTagSummary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", tagSummary(nil, 2))
	assert.Equal(t, "#a #b", tagSummary([]string{"a", "b"}, 2))
	assert.Equal(t, "#a #b +2", tagSummary([]string{"a", "b", "c", "d"}, 2))
}

func TestFindProject(t *testing.T) {
	t.Parallel()

	projects := []models.Project{{ID: "p1", Name: "Alpha"}, {ID: "Alpha", Name: "Shadow"}}
	p, err := findProject(projects, "Alpha")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", p.ID, "ids win over names")

	p, err = findProject(projects, "shadow")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", p.ID)
}
