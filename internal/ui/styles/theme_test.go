package styles_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/ui/styles"
)

func TestContentWidth(t *testing.T) {
	assert.Equal(t, 100, styles.ContentWidth(100))
	assert.Equal(t, styles.MaxWidth, styles.ContentWidth(500))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Design…", styles.Truncate("Design new landing page", 7))
	assert.Equal(t, "short", styles.Truncate("short", 20))
	assert.Equal(t, "", styles.Truncate("anything", 0))
}

func TestColorsAreDistinctPerStatus(t *testing.T) {
	seen := map[lipgloss.Color]models.TaskStatus{}
	for _, st := range models.Statuses() {
		c := styles.StatusColor(st)
		_, dup := seen[c]
		assert.False(t, dup, st)
		seen[c] = st
	}
	assert.Equal(t, styles.Current.Error, styles.PriorityColor(models.PriorityUrgent))
}

func TestBadgesArePlainWithAsciiProfile(t *testing.T) {
	old := lipgloss.ColorProfile()
	styles.SetProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })

	s := styles.NewStyles()
	assert.Equal(t, "● In Progress", s.StatusBadge(models.StatusInProgress))
	assert.Equal(t, "urgent", s.PriorityBadge(models.PriorityUrgent))
}
