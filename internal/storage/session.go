package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eino_grocery_bot/pkg"
)

type memorySession struct {
	context   pkg.ConversationContext
	updatedAt time.Time
}

// MemoryContextStore is the in-process context store used by the CLI and
// tests. Load returns an empty context for unknown or expired sessions;
// Reset returns ErrSessionNotFound for them.
type MemoryContextStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryContextStore creates a store whose sessions expire after ttl of
// inactivity. A zero ttl keeps sessions until Reset.
func NewMemoryContextStore(ttl time.Duration) *MemoryContextStore {
	return &MemoryContextStore{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Load retrieves the context of a session
func (m *MemoryContextStore) Load(ctx context.Context, sessionID string) (pkg.ConversationContext, error) {
	if sessionID == "" {
		return pkg.ConversationContext{}, ErrInvalidSessionID
	}

	m.mu.RLock()
	session, exists := m.sessions[sessionID]
	m.mu.RUnlock()
	if !exists {
		return pkg.ConversationContext{}, nil
	}

	if m.expired(session) {
		m.mu.Lock()
		delete(m.sessions, sessionID)
		m.mu.Unlock()
		return pkg.ConversationContext{}, nil
	}

	return session.context, nil
}

// Save overwrites the context of a session
func (m *MemoryContextStore) Save(ctx context.Context, sessionID string, convCtx pkg.ConversationContext) error {
	if sessionID == "" {
		return ErrInvalidSessionID
	}

	m.mu.Lock()
	m.sessions[sessionID] = memorySession{context: convCtx, updatedAt: m.now()}
	m.mu.Unlock()
	return nil
}

// Reset forgets a session; called when the chat session ends
func (m *MemoryContextStore) Reset(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryContextStore) expired(session memorySession) bool {
	return m.ttl > 0 && m.now().Sub(session.updatedAt) > m.ttl
}

// ValidateContext checks that a stored context is internally consistent
func ValidateContext(convCtx pkg.ConversationContext) error {
	if convCtx.LastItem != "" && convCtx.LastCategory == "" {
		return fmt.Errorf("context has item %q without a category", convCtx.LastItem)
	}
	return nil
}
