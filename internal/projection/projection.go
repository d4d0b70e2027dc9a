// Package projection derives read-only views of the task collection. Every
// function is pure and is meant to be called again after each store change;
// nothing here caches.
package projection

import (
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/store"
)

// FilterByProject keeps the tasks whose ProjectID matches, in source order.
// Tasks pointing at a missing project simply never match.
func FilterByProject(tasks []models.Task, projectID string) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	if projectID == "" {
		return out
	}
	for _, t := range tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// Visible applies the project filter for the snapshot's current project and
// then the search query.
func Visible(snap store.Snapshot, query string) []models.Task {
	return Search(FilterByProject(snap.Tasks, snap.CurrentProjectID()), query)
}

// Group is one status bucket
type Group struct {
	Status models.TaskStatus
	Tasks  []models.Task
}

// Groups always holds the four statuses in column order
type Groups []Group

// GroupByStatus partitions tasks into the four status buckets. Every bucket
// is present, possibly empty, and keeps the source order of its tasks. A task
// with an unknown status has no bucket; the store never holds one.
func GroupByStatus(tasks []models.Task) Groups {
	statuses := models.Statuses()
	groups := make(Groups, len(statuses))
	for i, st := range statuses {
		groups[i] = Group{Status: st, Tasks: []models.Task{}}
	}
	for _, t := range tasks {
		if i := t.Status.Index(); i >= 0 {
			groups[i].Tasks = append(groups[i].Tasks, t)
		}
	}
	return groups
}

// Bucket returns the tasks for one status
func (g Groups) Bucket(status models.TaskStatus) []models.Task {
	for _, grp := range g {
		if grp.Status == status {
			return grp.Tasks
		}
	}
	return nil
}

// Len counts the tasks across all buckets
func (g Groups) Len() int {
	n := 0
	for _, grp := range g {
		n += len(grp.Tasks)
	}
	return n
}
