package collab

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tgienger/taskboard/internal/models"
)

// Session wraps a Provider and degrades instead of failing. When the provider
// cannot identify the user or bind the document, presence is empty and
// comment calls return ErrUnavailable.
type Session struct {
	provider Provider
	identity Identity
	logger   zerolog.Logger

	mu         sync.RWMutex
	identified bool
	available  bool
	key        string
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithSessionLogger sets the logger used for degradation warnings
func WithSessionLogger(l zerolog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession returns a session that is unavailable until Start succeeds. A
// nil provider yields a session that stays unavailable.
func NewSession(p Provider, id Identity, opts ...SessionOption) *Session {
	s := &Session{
		provider: p,
		identity: id,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start identifies the user and binds the document for projectID
func (s *Session) Start(ctx context.Context, projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.available = false
	s.identified = false
	s.key = ""
	if s.provider == nil {
		s.logger.Info().Msg("collaboration disabled")
		return
	}
	if err := s.provider.Identify(ctx, s.identity); err != nil {
		s.logger.Warn().Err(err).Str("user", s.identity.ID).Msg("collaboration identify failed")
		return
	}
	s.identified = true
	s.bindLocked(ctx, projectID)
}

// Rebind switches the session to another project's document
func (s *Session) Rebind(ctx context.Context, projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.identified {
		return
	}
	s.available = false
	s.key = ""
	s.bindLocked(ctx, projectID)
}

func (s *Session) bindLocked(ctx context.Context, projectID string) {
	key := DocumentKey(s.identity.OrganizationID, projectID)
	if err := s.provider.BindDocument(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("document", key).Msg("collaboration bind failed")
		return
	}
	s.key = key
	s.available = true
	s.logger.Debug().Str("document", key).Msg("collaboration bound")
}

// Available reports whether the provider is usable
func (s *Session) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.available
}

// DocumentKey returns the currently bound document, empty when unbound
func (s *Session) DocumentKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Self is the local user as the session presents them
func (s *Session) Self() models.User {
	return s.identity.User()
}

// Presence returns the users viewing the document. Errors are logged and
// reported as nobody present.
func (s *Session) Presence(ctx context.Context) []models.User {
	if !s.Available() {
		return nil
	}
	users, err := s.provider.Presence(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("presence unavailable")
		return nil
	}
	return users
}

func (s *Session) Thread(ctx context.Context, anchor string) ([]models.Comment, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	return s.provider.Thread(ctx, anchor)
}

// AddComment posts text as the session's user
func (s *Session) AddComment(ctx context.Context, anchor, text string) (models.Comment, error) {
	if !s.Available() {
		return models.Comment{}, ErrUnavailable
	}
	return s.provider.AddComment(ctx, anchor, s.Self(), text)
}

// Reply posts text as the session's user under parentID
func (s *Session) Reply(ctx context.Context, anchor, parentID, text string) (models.Comment, error) {
	if !s.Available() {
		return models.Comment{}, ErrUnavailable
	}
	return s.provider.Reply(ctx, anchor, parentID, s.Self(), text)
}
