package webserver

import (
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alchemorsel/souschef/internal/ports/inbound"
)

const (
	sessionCookieName = "souschef_session"
	sessionTTL        = 24 * time.Hour
	maxHistoryLength  = 200
)

// Exchange is one question/answer pair in a conversation.
type Exchange struct {
	Question  string
	ReplyHTML template.HTML
	Outcome   inbound.ChatOutcome
	At        time.Time
}

// Session holds one visitor's conversation. History is append-only; past
// exchanges are never rewritten, only capped at the front when the
// conversation grows very long.
type Session struct {
	ID        string
	CreatedAt time.Time
	LastSeen  time.Time
	History   []Exchange
}

// SessionStore keeps sessions in memory, keyed by ID.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	stop     chan struct{}
	once     sync.Once
}

// NewSessionStore creates a store with a background expiry sweep.
func NewSessionStore() *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	go s.cleanupExpired()
	return s
}

// GetOrCreate returns the session for the request cookie, creating a new
// session (and setting the cookie) when there is none or it has expired.
func (s *SessionStore) GetOrCreate(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.mu.Lock()
		if session, ok := s.sessions[cookie.Value]; ok && time.Since(session.LastSeen) < sessionTTL {
			session.LastSeen = time.Now()
			s.mu.Unlock()
			return session
		}
		s.mu.Unlock()
	}

	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		LastSeen:  time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
	return session
}

// Append records one exchange in the session's history.
func (s *SessionStore) Append(sessionID string, exchange Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	session.History = append(session.History, exchange)
	if len(session.History) > maxHistoryLength {
		session.History = session.History[len(session.History)-maxHistoryLength:]
	}
	session.LastSeen = time.Now()
}

// History returns a copy of the session's exchanges in order.
func (s *SessionStore) History(sessionID string) []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	history := make([]Exchange, len(session.History))
	copy(history, session.History)
	return history
}

// Close stops the background sweep goroutine.
func (s *SessionStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *SessionStore) cleanupExpired() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			for id, session := range s.sessions {
				if time.Since(session.LastSeen) >= sessionTTL {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
