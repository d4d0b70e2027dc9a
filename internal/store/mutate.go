package store

import (
	"time"

	"github.com/tgienger/taskboard/internal/dnd"
	"github.com/tgienger/taskboard/internal/models"
)

// WithStatus returns a new collection where the task with the given id has
// the new status and a refreshed UpdatedAt. changed is false, and tasks is
// returned as-is, when no task matches or the status is already set.
func WithStatus(tasks []models.Task, id string, status models.TaskStatus, now time.Time) ([]models.Task, bool) {
	return replaceTask(tasks, id, now, func(t *models.Task) bool {
		if t.Status == status {
			return false
		}
		t.Status = status
		return true
	})
}

// WithPriority is WithStatus for the priority field
func WithPriority(tasks []models.Task, id string, priority models.TaskPriority, now time.Time) ([]models.Task, bool) {
	return replaceTask(tasks, id, now, func(t *models.Task) bool {
		if t.Priority == priority {
			return false
		}
		t.Priority = priority
		return true
	})
}

// replaceTask maps over tasks, swapping in an updated copy of every task with
// the given id. The input slice and its tasks are never modified.
func replaceTask(tasks []models.Task, id string, now time.Time, apply func(*models.Task) bool) ([]models.Task, bool) {
	var next []models.Task
	for i, t := range tasks {
		if t.ID != id {
			continue
		}
		c := t.Clone()
		if !apply(&c) {
			continue
		}
		if now.After(c.UpdatedAt) {
			c.UpdatedAt = now
		}
		if next == nil {
			next = make([]models.Task, len(tasks))
			copy(next, tasks)
		}
		next[i] = c
	}
	if next == nil {
		return tasks, false
	}
	return next, true
}

// SetTaskStatus runs the status-change protocol: read the collection, build
// the updated one, replace it. Unknown ids and unchanged values are silent
// no-ops and do not notify subscribers.
func (s *Store) SetTaskStatus(id string, status models.TaskStatus) (bool, error) {
	if !status.Valid() {
		return false, models.UnknownStatusError{Value: string(status)}
	}
	next, changed := WithStatus(s.Tasks(), id, status, s.now())
	if !changed {
		s.logger.Debug().Str("task", id).Str("status", string(status)).Msg("status change skipped")
		return false, nil
	}
	if err := s.SetTasks(next); err != nil {
		return false, err
	}
	return true, nil
}

// SetTaskPriority runs the same protocol for priority
func (s *Store) SetTaskPriority(id string, priority models.TaskPriority) (bool, error) {
	if !priority.Valid() {
		return false, models.UnknownPriorityError{Value: string(priority)}
	}
	next, changed := WithPriority(s.Tasks(), id, priority, s.now())
	if !changed {
		s.logger.Debug().Str("task", id).Str("priority", string(priority)).Msg("priority change skipped")
		return false, nil
	}
	if err := s.SetTasks(next); err != nil {
		return false, err
	}
	return true, nil
}

// ApplyDrop turns a board drop into a status change. Drops that stay in
// their zone or land nowhere change nothing.
func (s *Store) ApplyDrop(ev dnd.DropEvent) bool {
	id, status, ok := dnd.Resolve(ev)
	if !ok {
		return false
	}
	changed, _ := s.SetTaskStatus(id, status)
	return changed
}
