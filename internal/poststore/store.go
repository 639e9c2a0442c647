// Package poststore is the single in-memory copy of every post the client
// has seen, keyed by id. Views read from it and subscribe to changes
// instead of holding their own copies.
package poststore

import (
	"sync"

	"github.com/ReportMitra/citizen-client/internal/model"
)

type Store struct {
	mu    sync.RWMutex
	posts map[int64]model.Post

	subMu   sync.Mutex
	subs    map[int]func(model.Post)
	nextSub int
}

func New() *Store {
	return &Store{
		posts: make(map[int64]model.Post),
		subs:  make(map[int]func(model.Post)),
	}
}

// Upsert stores server copies of posts, replacing what was held.
func (s *Store) Upsert(posts ...model.Post) {
	s.mu.Lock()
	for _, p := range posts {
		if p.IsLiked && p.IsDisliked {
			p.IsDisliked = false
		}
		s.posts[p.ID] = p
	}
	s.mu.Unlock()

	for _, p := range posts {
		if stored, ok := s.Get(p.ID); ok {
			s.publish(stored)
		}
	}
}

func (s *Store) Get(id int64) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	return p, ok
}

// Many returns the posts for ids in order, skipping unknown ids.
func (s *Store) Many(ids []int64) []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.posts[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// SetReaction replaces the reaction of post id and notifies subscribers.
func (s *Store) SetReaction(id int64, r model.Reaction) (model.Post, bool) {
	s.mu.Lock()
	p, ok := s.posts[id]
	if !ok {
		s.mu.Unlock()
		return model.Post{}, false
	}
	p.SetReaction(r)
	s.posts[id] = p
	s.mu.Unlock()

	s.publish(p)
	return p, true
}

// Reset drops every post. Subscribers are not notified.
func (s *Store) Reset() {
	s.mu.Lock()
	s.posts = make(map[int64]model.Post)
	s.mu.Unlock()
}

// Subscribe calls fn with every post written from now on. fn runs on the
// writer's goroutine and must not block.
func (s *Store) Subscribe(fn func(model.Post)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(p model.Post) {
	s.subMu.Lock()
	subs := make([]func(model.Post), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
}
