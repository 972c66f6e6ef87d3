package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"museumrewards/internal/kv"
	"museumrewards/internal/models"
)

// Memory is the in-process counterpart of Repo, used when no database is
// configured.
type Memory struct {
	*kv.Memory

	mu       sync.RWMutex
	users    map[string]models.User
	byName   map[string]string
	sessions map[string][]models.Session
}

func NewMemory() *Memory {
	return &Memory{
		Memory:   kv.NewMemory(),
		users:    make(map[string]models.User),
		byName:   make(map[string]string),
		sessions: make(map[string][]models.Session),
	}
}

func (m *Memory) CreateUser(_ context.Context, name, passwordHash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byName[name]; exists {
		return "", ErrUserExists
	}
	u := models.User{ID: uuid.NewString(), Name: name, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	m.users[u.ID] = u
	m.byName[name] = u.ID
	return u.ID, nil
}

func (m *Memory) GetUserByName(_ context.Context, name string) (string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[name]
	if !ok {
		return "", "", ErrNotFound
	}
	return id, m.users[id].PasswordHash, nil
}

func (m *Memory) GetUserByID(_ context.Context, userID string) (string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return "", "", ErrNotFound
	}
	return u.ID, u.Name, nil
}

func (m *Memory) CreateSession(_ context.Context, userID, token string, expiresAt time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	m.sessions[userID] = append(m.sessions[userID], s)
	return s.ID, nil
}

func (m *Memory) SessionActive(_ context.Context, userID, sessionID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now()
	for _, s := range m.sessions[userID] {
		if s.ID == sessionID && s.ExpiresAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) DeleteSessions(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

// SessionCount is used by tests.
func (m *Memory) SessionCount(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions[userID])
}
