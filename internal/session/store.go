package session

import (
	"context"
	"sync"
)

// Store keeps one UiState per chat.
type Store interface {
	// Load returns the zero UiState when nothing is stored for chatID.
	Load(ctx context.Context, chatID int64) (UiState, error)
	Save(ctx context.Context, chatID int64, state UiState) error
}

// MemoryStore is a process-local Store. State is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]UiState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[int64]UiState)}
}

func (m *MemoryStore) Load(ctx context.Context, chatID int64) (UiState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[chatID], nil
}

func (m *MemoryStore) Save(ctx context.Context, chatID int64, state UiState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[chatID] = state
	return nil
}
