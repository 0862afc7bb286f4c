package domain

import (
	"sync"
	"time"
)

// SessionState is everything one user session owns.
type SessionState struct {
	ID        string
	History   *History
	CreatedAt time.Time

	mu         sync.RWMutex
	theme      Theme
	credential string
}

// NewSessionState creates an empty light-themed session.
func NewSessionState(id string, now time.Time) *SessionState {
	return &SessionState{
		ID:        id,
		theme:     ThemeLight,
		History:   &History{},
		CreatedAt: now,
	}
}

// SetCredential stores an API key supplied by the user for this session.
func (s *SessionState) SetCredential(key string) {
	s.mu.Lock()
	s.credential = key
	s.mu.Unlock()
}

// Credential returns the session's own API key, if any.
func (s *SessionState) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// SetTheme changes the display theme.
func (s *SessionState) SetTheme(t Theme) {
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()
}

// CurrentTheme returns the display theme.
func (s *SessionState) CurrentTheme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}
