// Package modal tracks which task is open for detail editing.
//
// Closing is two-phase: the modal is hidden at once, and the selected task is
// dropped only after a delay so an exit transition never shows empty content.
// Opening again cancels any pending clear.
package modal

import (
	"sync"
	"time"

	"github.com/tgienger/taskboard/internal/models"
)

// DefaultCloseDelay is how long the selected task outlives the close
const DefaultCloseDelay = 200 * time.Millisecond

// Timer is a cancellable handle for a deferred action
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Modal is safe for concurrent use; the deferred clear runs on its own
// goroutine with the real scheduler.
type Modal struct {
	mu       sync.Mutex
	selected *models.Task
	open     bool
	pending  Timer
	gen      uint64

	delay   time.Duration
	sched   Scheduler
	onClear func()
}

// Option configures a Modal
type Option func(*Modal)

// WithDelay overrides DefaultCloseDelay
func WithDelay(d time.Duration) Option {
	return func(m *Modal) { m.delay = d }
}

// WithScheduler replaces the time.AfterFunc based scheduler
func WithScheduler(s Scheduler) Option {
	return func(m *Modal) { m.sched = s }
}

// OnClear registers a callback that runs after a deferred clear drops the
// task. It is not called for superseded clears.
func OnClear(fn func()) Option {
	return func(m *Modal) { m.onClear = fn }
}

// New returns a closed modal
func New(opts ...Option) *Modal {
	m := &Modal{
		delay: DefaultCloseDelay,
		sched: realScheduler{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open selects task and shows the modal, cancelling any pending clear
func (m *Modal) Open(task models.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLocked()
	m.gen++
	m.selected = &task
	m.open = true
}

// Close hides the modal now and clears the selection after the delay
func (m *Modal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open && m.selected == nil {
		return
	}
	m.cancelLocked()
	m.open = false
	m.gen++
	gen := m.gen
	m.pending = m.sched.AfterFunc(m.delay, func() { m.clear(gen) })
}

// Refresh swaps in a newer copy of the selected task, keeping the open state.
// It does nothing when another task, or none, is selected.
func (m *Modal) Refresh(task models.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selected != nil && m.selected.ID == task.ID {
		m.selected = &task
	}
}

// State returns the selected task and whether the modal is shown. The task
// can be non-nil while closed, during the delay.
func (m *Modal) State() (*models.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selected == nil {
		return nil, m.open
	}
	t := *m.selected
	return &t, m.open
}

// IsOpen reports whether the modal is shown
func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *Modal) cancelLocked() {
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
}

// clear drops the selection unless an Open or another Close happened since
// the timer was armed. The generation check covers a timer that fired while
// Stop was racing it.
func (m *Modal) clear(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.open {
		m.mu.Unlock()
		return
	}
	m.selected = nil
	m.pending = nil
	cb := m.onClear
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}
