package ports

import "github.com/randomtoy/lifeassist-go/internal/domain"

// SessionStore keeps live sessions in memory.
type SessionStore interface {
	NewSession() *domain.SessionState
	Get(id string) (*domain.SessionState, bool)
	Len() int
}
