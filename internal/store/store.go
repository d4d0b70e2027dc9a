// Package store holds the single in-memory source of truth for tasks,
// projects, the current project and the active view.
//
// Tasks change only through whole-collection replacement. A caller reads the
// collection, builds a new one and hands it back with SetTasks. Two callers
// that both read before either writes race, and the later write wins; there is
// no merge. That is acceptable for one user in one session. Callers that need a
// guard against lost updates can use CompareAndSetTasks with the revision they
// read from.
package store

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tgienger/taskboard/internal/models"
	"github.com/tgienger/taskboard/internal/view"
)

// Snapshot is a consistent read of the whole store
type Snapshot struct {
	Tasks          []models.Task
	Projects       []models.Project
	CurrentProject *models.Project
	CurrentView    view.Type
	Revision       uint64
}

// CurrentProjectID returns the id of the current project or ""
func (s Snapshot) CurrentProjectID() string {
	if s.CurrentProject == nil {
		return ""
	}
	return s.CurrentProject.ID
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Store is safe for concurrent use. Subscribers run synchronously on the
// goroutine that made the change, after the change is visible and without any
// store lock held, so they may read or even mutate the store again.
type Store struct {
	mu       sync.RWMutex
	tasks    []models.Task
	projects []models.Project
	current  *models.Project
	view     view.Type
	rev      uint64

	subMu  sync.Mutex
	subs   []subscriber
	nextID int

	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the time source used to stamp UpdatedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger; the default is the global zerolog logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New seeds a store. The first project becomes current and the view starts
// as view.Initial. Tasks with an unknown status are dropped with a warning.
func New(tasks []models.Task, projects []models.Project, opts ...Option) *Store {
	s := &Store{
		projects: slices.Clone(projects),
		view:     view.Initial,
		now:      time.Now,
		logger:   log.Logger,
	}
	if len(projects) > 0 {
		p := projects[0]
		s.current = &p
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Status.Valid() {
			s.logger.Warn().Str("task", t.ID).Str("status", string(t.Status)).Msg("task with unknown status dropped")
			continue
		}
		s.tasks = append(s.tasks, t)
	}
	return s
}

// Tasks returns the full, unfiltered collection. The slice is a copy; the
// tasks inside must be treated as read-only.
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Projects returns the project collection
func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.projects)
}

// CurrentProject returns the selected project, if any
func (s *Store) CurrentProject() (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Project{}, false
	}
	return *s.current, true
}

// CurrentView returns the active view
func (s *Store) CurrentView() view.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Revision counts task collection replacements
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

// Snapshot returns every piece of state from one consistent read
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Tasks:       slices.Clone(s.tasks),
		Projects:    slices.Clone(s.projects),
		CurrentView: s.view,
		Revision:    s.rev,
	}
	if s.current != nil {
		p := *s.current
		snap.CurrentProject = &p
	}
	return snap
}

// SetTasks replaces the whole collection. It is not a merge: callers pass the
// complete, already-updated collection. Every task must carry one of the four
// statuses; otherwise nothing changes and an UnknownStatusError is returned.
func (s *Store) SetTasks(tasks []models.Task) error {
	if err := validateStatuses(tasks); err != nil {
		return err
	}
	s.mu.Lock()
	s.tasks = slices.Clone(tasks)
	s.rev++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug().Uint64("revision", snap.Revision).Int("tasks", len(snap.Tasks)).Msg("task collection replaced")
	s.notify(snap)
	return nil
}

// validateStatuses keeps status grouping a partition of the collection
func validateStatuses(tasks []models.Task) error {
	for _, t := range tasks {
		if !t.Status.Valid() {
			return fmt.Errorf("task %s: %w", t.ID, models.UnknownStatusError{Value: string(t.Status)})
		}
	}
	return nil
}

// CompareAndSetTasks replaces the collection only if no replacement happened
// since rev was read.
func (s *Store) CompareAndSetTasks(rev uint64, tasks []models.Task) error {
	if err := validateStatuses(tasks); err != nil {
		return err
	}
	s.mu.Lock()
	if s.rev != rev {
		cur := s.rev
		s.mu.Unlock()
		s.logger.Debug().Uint64("expected", rev).Uint64("current", cur).Msg("stale task collection write rejected")
		return ErrStaleRevision
	}
	s.tasks = slices.Clone(tasks)
	s.rev++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// SetCurrentProject selects a project. The project must exist in the
// collection; otherwise ErrProjectNotFound is returned and nothing changes.
func (s *Store) SetCurrentProject(p models.Project) error {
	s.mu.Lock()
	i := slices.IndexFunc(s.projects, func(c models.Project) bool { return c.ID == p.ID })
	if i < 0 {
		s.mu.Unlock()
		return &projectError{id: p.ID}
	}
	if s.current != nil && s.current.ID == p.ID {
		s.mu.Unlock()
		return nil
	}
	found := s.projects[i]
	s.current = &found
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug().Str("project", found.ID).Msg("current project changed")
	s.notify(snap)
	return nil
}

// SetCurrentView switches the active view. It never touches task data.
func (s *Store) SetCurrentView(v view.Type) error {
	if !v.Valid() {
		return view.UnknownViewError{Value: string(v)}
	}

	s.mu.Lock()
	if s.view == v {
		s.mu.Unlock()
		return nil
	}
	s.view = v
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug().Str("view", string(v)).Msg("current view changed")
	s.notify(snap)
	return nil
}

// Subscribe registers fn for every change. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
		})
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}

type projectError struct {
	id string
}

func (e *projectError) Error() string {
	return ErrProjectNotFound.Error() + ": " + e.id
}

func (e *projectError) Unwrap() error {
	return ErrProjectNotFound
}
