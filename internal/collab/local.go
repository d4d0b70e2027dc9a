package collab

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/taskboard/internal/models"
)

// Local is an in-memory Provider. Threads are kept per document and anchor,
// so switching projects switches the visible threads.
type Local struct {
	mu      sync.Mutex
	users   []models.User
	self    *models.User
	doc     string
	threads map[string]map[string][]models.Comment
	now     func() time.Time
}

// LocalOption configures a Local provider
type LocalOption func(*Local)

// WithLocalClock sets the clock used for comment timestamps
func WithLocalClock(now func() time.Time) LocalOption {
	return func(l *Local) { l.now = now }
}

// NewLocal returns a provider that reports users as the other people present
func NewLocal(users []models.User, opts ...LocalOption) *Local {
	l := &Local{
		users:   slices.Clone(users),
		threads: make(map[string]map[string][]models.Comment),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Seed loads the comments already attached to tasks into the threads of the
// given document
func (l *Local) Seed(key string, tasks []models.Task) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc := l.docLocked(key)
	for _, t := range tasks {
		if len(t.Comments) == 0 {
			continue
		}
		doc[t.AnchorKey()] = append(doc[t.AnchorKey()], t.Clone().Comments...)
	}
}

func (l *Local) Identify(_ context.Context, id Identity) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	u := id.User()
	l.self = &u
	return nil
}

func (l *Local) BindDocument(_ context.Context, key string) error {
	if key == "" {
		return ErrNotBound
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.doc = key
	l.docLocked(key)
	return nil
}

// Presence lists the identified user first, then the other users, without
// duplicates
func (l *Local) Presence(_ context.Context) ([]models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.doc == "" {
		return nil, ErrNotBound
	}
	out := make([]models.User, 0, len(l.users)+1)
	if l.self != nil {
		out = append(out, *l.self)
	}
	for _, u := range l.users {
		if l.self != nil && u.ID == l.self.ID {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (l *Local) Thread(_ context.Context, anchor string) ([]models.Comment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.doc == "" {
		return nil, ErrNotBound
	}
	thread := l.threads[l.doc][anchor]
	out := make([]models.Comment, len(thread))
	for i, c := range thread {
		c.Replies = slices.Clone(c.Replies)
		out[i] = c
	}
	return out, nil
}

func (l *Local) AddComment(_ context.Context, anchor string, author models.User, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, ErrEmptyComment
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.doc == "" {
		return models.Comment{}, ErrNotBound
	}
	c := l.newCommentLocked(author, text)
	doc := l.threads[l.doc]
	doc[anchor] = append(doc[anchor], c)
	return c, nil
}

// Reply attaches to the top-level comment that parentID names, or to the
// top-level comment owning the reply parentID names. Threads stay one level
// deep.
func (l *Local) Reply(_ context.Context, anchor, parentID string, author models.User, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, ErrEmptyComment
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.doc == "" {
		return models.Comment{}, ErrNotBound
	}
	thread := l.threads[l.doc][anchor]
	for i, c := range thread {
		if c.ID != parentID && !slices.ContainsFunc(c.Replies, func(r models.Comment) bool { return r.ID == parentID }) {
			continue
		}
		r := l.newCommentLocked(author, text)
		thread[i].Replies = append(thread[i].Replies, r)
		return r, nil
	}
	return models.Comment{}, ErrCommentNotFound
}

func (l *Local) newCommentLocked(author models.User, text string) models.Comment {
	return models.Comment{
		ID:        uuid.NewString(),
		Author:    author,
		AuthorID:  author.ID,
		Text:      text,
		Timestamp: l.now(),
	}
}

func (l *Local) docLocked(key string) map[string][]models.Comment {
	doc, ok := l.threads[key]
	if !ok {
		doc = make(map[string][]models.Comment)
		l.threads[key] = doc
	}
	return doc
}
