// Package session keeps one registration workflow per browser session.
package session

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/gss/competition-registration/pkg/clipboard"
	"github.com/gss/competition-registration/pkg/workflow"
)

// Session is a browser's workflow and, in browser clipboard mode, the
// clipboard the workflow copies into
type Session struct {
	ID        string
	Workflow  *workflow.Workflow
	Clipboard *clipboard.Browser
}

// Factory builds the workflow for a new session
type Factory func(clip workflow.Clipboard) *workflow.Workflow

// Store is an in-memory session registry. Entries expire after ttl without
// a request.
type Store struct {
	cache           *gocache.Cache
	ttl             time.Duration
	factory         Factory
	systemClipboard workflow.Clipboard
	logger          *zap.Logger
}

// NewStore creates a Store. A nil systemClipboard selects per-session
// browser clipboards.
func NewStore(ttl time.Duration, factory Factory, systemClipboard workflow.Clipboard, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		cache:           gocache.New(ttl, ttl*2),
		ttl:             ttl,
		factory:         factory,
		systemClipboard: systemClipboard,
		logger:          logger,
	}
	s.cache.OnEvicted(func(id string, _ interface{}) {
		s.logger.Debug("session expired", zap.String("session", id))
	})
	return s
}

// Get returns the session for id and extends its lifetime
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	value, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	sess, ok := value.(*Session)
	if !ok {
		s.logger.Error("wrong type in session cache", zap.String("session", id))
		return nil, false
	}
	s.cache.Set(id, sess, s.ttl)
	return sess, true
}

// GetOrCreate returns the session for id, or a new one when id is unknown
// or expired
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}

	sess := &Session{ID: uuid.NewString()}
	if s.systemClipboard != nil {
		sess.Workflow = s.factory(s.systemClipboard)
	} else {
		sess.Clipboard = &clipboard.Browser{}
		sess.Workflow = s.factory(sess.Clipboard)
	}
	s.cache.Set(sess.ID, sess, s.ttl)

	s.logger.Debug("session created", zap.String("session", sess.ID))
	return sess, true
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
