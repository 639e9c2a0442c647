// Package session holds the bearer token pair and the signed-in user.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/ReportMitra/citizen-client/internal/model"
)

var ErrNoSession = errors.New("no session")

// Store persists one session. SaveSession must write tokens and user together.
type Store interface {
	Load(ctx context.Context) (*Stored, error)
	SaveSession(ctx context.Context, tokens model.Tokens, user *model.User) error
	SetAccess(ctx context.Context, access string, refresh string) error
	SetUser(ctx context.Context, user *model.User) error
	Clear(ctx context.Context) error
}

type Stored struct {
	Tokens model.Tokens `json:"tokens"`
	User   *model.User  `json:"user"`
}

// Manager wraps a Store and tells subscribers when the session flips
// between authenticated and anonymous.
type Manager struct {
	store Store

	mu      sync.Mutex
	subs    map[int]func(authenticated bool)
	nextSub int
	last    bool
}

func NewManager(ctx context.Context, store Store) *Manager {
	m := &Manager{
		store: store,
		subs:  make(map[int]func(bool)),
	}
	m.last = m.Authenticated(ctx)
	return m
}

func (m *Manager) Tokens(ctx context.Context) (model.Tokens, error) {
	stored, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return model.Tokens{}, nil
		}
		return model.Tokens{}, err
	}

	return stored.Tokens, nil
}

func (m *Manager) AccessToken(ctx context.Context) string {
	tokens, err := m.Tokens(ctx)
	if err != nil {
		return ""
	}
	return tokens.Access
}

func (m *Manager) User(ctx context.Context) (*model.User, error) {
	stored, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, nil
		}
		return nil, err
	}

	return stored.User, nil
}

func (m *Manager) Authenticated(ctx context.Context) bool {
	return m.AccessToken(ctx) != ""
}

func (m *Manager) Save(ctx context.Context, tokens model.Tokens, user *model.User) error {
	if err := m.store.SaveSession(ctx, tokens, user); err != nil {
		return err
	}
	m.notify(tokens.Access != "")
	return nil
}

// SetAccess stores a refreshed access token. An empty refresh keeps the stored one.
func (m *Manager) SetAccess(ctx context.Context, access string, refresh string) error {
	if err := m.store.SetAccess(ctx, access, refresh); err != nil {
		return err
	}
	m.notify(access != "")
	return nil
}

func (m *Manager) SetUser(ctx context.Context, user *model.User) error {
	return m.store.SetUser(ctx, user)
}

func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	m.notify(false)
	return nil
}

// Subscribe registers fn for authenticated transitions and returns a cancel func.
func (m *Manager) Subscribe(fn func(authenticated bool)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify(authenticated bool) {
	m.mu.Lock()
	if m.last == authenticated {
		m.mu.Unlock()
		return
	}
	m.last = authenticated
	subs := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(authenticated)
	}
}
