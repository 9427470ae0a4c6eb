package models

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/atomic"
)

type UserStore struct {
	mu     sync.RWMutex
	data   map[int64]*UserRecord
	byName map[string]int64
	nextID int64
	dirty  *atomic.Bool
}

func NewUserStore(dirty *atomic.Bool) *UserStore {
	return &UserStore{
		data:   make(map[int64]*UserRecord),
		byName: make(map[string]int64),
		nextID: 1,
		dirty:  dirty,
	}
}

func (s *UserStore) Create(_ context.Context, u *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[u.Username]; ok {
		return nil, Conflictf("username %q is taken", u.Username)
	}
	rec := NewUserRecord(u)
	rec.ID = s.nextID
	s.nextID++
	s.data[rec.ID] = rec
	s.byName[rec.Username] = rec.ID
	s.dirty.Store(true)
	return rec.User(), nil
}

func (s *UserStore) Get(_ context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[id]
	if !ok {
		return nil, NotFoundf("user %d", id)
	}
	return rec.User(), nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[username]
	if !ok {
		return nil, NotFoundf("user %q", username)
	}
	return s.data[id].User(), nil
}

func (s *UserStore) List(_ context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*User, 0, len(s.data))
	for _, rec := range s.data {
		result = append(result, rec.User())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *UserStore) update(id int64, fn func(rec *UserRecord)) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[id]
	if !ok {
		return nil, NotFoundf("user %d", id)
	}
	fn(rec)
	s.dirty.Store(true)
	return rec.User(), nil
}

func (s *UserStore) AddStudyTime(_ context.Context, id int64, seconds int64) (*User, error) {
	return s.update(id, func(rec *UserRecord) {
		rec.TotalStudyTime += seconds
	})
}

func (s *UserStore) RaiseLevel(_ context.Context, id int64, level string) (*User, error) {
	return s.update(id, func(rec *UserRecord) {
		if TierLevel(level) > TierLevel(rec.Level) {
			rec.Level = level
		}
	})
}

func (s *UserStore) SetDailyGoal(_ context.Context, id int64, seconds int64) (*User, error) {
	return s.update(id, func(rec *UserRecord) {
		rec.DailyGoal = seconds
	})
}

func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *UserStore) snapshot() []*UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*UserRecord, 0, len(s.data))
	for _, rec := range s.data {
		c := *rec
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *UserStore) load(records []*UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[int64]*UserRecord, len(records))
	s.byName = make(map[string]int64, len(records))
	s.nextID = 1
	for _, rec := range records {
		if rec == nil {
			continue
		}
		c := *rec
		s.data[c.ID] = &c
		s.byName[c.Username] = c.ID
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
}
