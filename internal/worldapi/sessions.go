package worldapi

import (
	"sync"

	"github.com/google/uuid"
)

// SessionManager tracks bearer tokens issued to logged-in users. Tokens
// live for the lifetime of the process.
type SessionManager struct {
	mu     sync.Mutex
	tokens map[string]string // token -> userID
}

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		tokens: make(map[string]string),
	}
}

// Issue creates a new token for the user and returns it.
func (m *SessionManager) Issue(userID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.NewString()
	m.tokens[token] = userID
	return token
}

// Resolve returns the user id a token was issued to.
func (m *SessionManager) Resolve(token string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	userID, ok := m.tokens[token]
	return userID, ok
}
