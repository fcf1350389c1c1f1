package state

import (
	"context"
	"sync"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
)

// Manager keeps onboarding sessions in memory
type Manager struct {
	sessions map[int64]domain.OnboardingSession
	mu       sync.RWMutex
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]domain.OnboardingSession),
	}
}

// Get returns the session of a user, or nil when there is none
func (m *Manager) Get(ctx context.Context, userID int64) (*domain.OnboardingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, exists := m.sessions[userID]
	if !exists {
		return nil, nil
	}
	return &session, nil
}

// Save stores a copy of the session
func (m *Manager) Save(ctx context.Context, session *domain.OnboardingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.UserID] = *session
	return nil
}

// Delete removes the session of a user
func (m *Manager) Delete(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
