package models

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type SessionStore struct {
	mu     sync.RWMutex
	data   map[int64]*Session
	active map[int64]int64 // user id -> active session id
	nextID int64
	dirty  *atomic.Bool
}

func NewSessionStore(dirty *atomic.Bool) *SessionStore {
	return &SessionStore{
		data:   make(map[int64]*Session),
		active: make(map[int64]int64),
		nextID: 1,
		dirty:  dirty,
	}
}

func (s *SessionStore) Create(_ context.Context, sess *Session) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.IsActive {
		if id, ok := s.active[sess.UserID]; ok {
			return nil, Conflictf("user %d already has active session %d", sess.UserID, id)
		}
	}
	c := sess.Clone()
	c.ID = s.nextID
	s.nextID++
	s.data[c.ID] = c
	if c.IsActive {
		s.active[c.UserID] = c.ID
	}
	s.dirty.Store(true)
	return c.Clone(), nil
}

func (s *SessionStore) Get(_ context.Context, id int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.data[id]
	if !ok {
		return nil, NotFoundf("session %d", id)
	}
	return sess.Clone(), nil
}

func (s *SessionStore) ListActiveByUser(_ context.Context, userID int64) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Session, 0, 1)
	if id, ok := s.active[userID]; ok {
		result = append(result, s.data[id].Clone())
	}
	return result, nil
}

func (s *SessionStore) End(_ context.Context, id int64, duration int64, at time.Time) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok || !sess.IsActive {
		return nil, NotFoundf("active session %d", id)
	}
	end := at
	d := duration
	sess.EndTime = &end
	sess.Duration = &d
	sess.IsActive = false
	sess.LastSyncTime = at
	delete(s.active, sess.UserID)
	s.dirty.Store(true)
	return sess.Clone(), nil
}

func (s *SessionStore) SetBreakTag(_ context.Context, id int64, tag string, at time.Time) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return nil, NotFoundf("session %d", id)
	}
	if sess.Type != SessionBreak {
		return nil, InvalidStatef("can only tag break sessions, session %d is %s", id, sess.Type)
	}
	t := tag
	sess.BreakTag = &t
	sess.LastSyncTime = at
	s.dirty.Store(true)
	return sess.Clone(), nil
}

func (s *SessionStore) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active), nil
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *SessionStore) snapshot() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Session, 0, len(s.data))
	for _, sess := range s.data {
		result = append(result, sess.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *SessionStore) load(sessions []*Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[int64]*Session, len(sessions))
	s.active = make(map[int64]int64)
	s.nextID = 1
	for _, sess := range sessions {
		if sess == nil {
			continue
		}
		c := sess.Clone()
		if c.IsActive {
			// keep the newest active session if a snapshot ever carried two
			if prev, ok := s.active[c.UserID]; ok && prev > c.ID {
				c.IsActive = false
			} else {
				if ok {
					s.data[prev].IsActive = false
				}
				s.active[c.UserID] = c.ID
			}
		}
		s.data[c.ID] = c
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
}
