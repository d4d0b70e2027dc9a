package projection

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/tgienger/taskboard/internal/models"
)

// searchSource exposes the searchable text of each task to fuzzy
type searchSource []models.Task

func (s searchSource) String(i int) string {
	t := s[i]
	return t.Title + " " + t.Description + " " + strings.Join(t.Tags, " ")
}

func (s searchSource) Len() int { return len(s) }

// Search keeps the tasks that fuzzy-match query. Matches stay in source
// order rather than score order so the views do not reshuffle while typing.
func Search(tasks []models.Task, query string) []models.Task {
	query = strings.TrimSpace(query)
	if query == "" {
		return tasks
	}
	matches := fuzzy.FindFrom(query, searchSource(tasks))
	idx := make([]int, 0, len(matches))
	for _, m := range matches {
		idx = append(idx, m.Index)
	}
	slices.Sort(idx)

	out := make([]models.Task, 0, len(idx))
	for _, i := range idx {
		out = append(out, tasks[i])
	}
	return out
}
