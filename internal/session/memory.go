package session

import (
	"context"
	"sync"

	"github.com/ReportMitra/citizen-client/internal/model"
)

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	stored *Stored
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*Stored, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stored == nil {
		return nil, ErrNoSession
	}
	cp := *s.stored
	return &cp, nil
}

func (s *MemoryStore) SaveSession(ctx context.Context, tokens model.Tokens, user *model.User) error {
	s.mu.Lock()
	s.stored = &Stored{Tokens: tokens, User: user}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) SetAccess(ctx context.Context, access string, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stored == nil {
		s.stored = &Stored{}
	}
	s.stored.Tokens.Access = access
	if refresh != "" {
		s.stored.Tokens.Refresh = refresh
	}
	return nil
}

func (s *MemoryStore) SetUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stored == nil {
		return ErrNoSession
	}
	s.stored.User = user
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.stored = nil
	s.mu.Unlock()
	return nil
}
