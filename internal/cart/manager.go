package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Manager hands out one Store per session ID, restoring the draft from the
// repository the first time a session shows up after a restart.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
	repo   DraftRepository
	logger *zap.Logger
}

func NewManager(repo DraftRepository, logger *zap.Logger) *Manager {
	return &Manager{
		stores: make(map[string]*Store),
		repo:   repo,
		logger: logger,
	}
}

func (m *Manager) Get(ctx context.Context, sessionID string) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[sessionID]; ok {
		return s, nil
	}

	draft, err := m.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s := NewStore(sessionID, draft, m.repo, m.logger)
	m.stores[sessionID] = s
	return s, nil
}
