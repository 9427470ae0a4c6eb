package models

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/atomic"
)

type SubjectStore struct {
	mu     sync.RWMutex
	data   map[int64]*Subject
	nextID int64
	dirty  *atomic.Bool
}

func NewSubjectStore(dirty *atomic.Bool) *SubjectStore {
	return &SubjectStore{
		data:   make(map[int64]*Subject),
		nextID: 1,
		dirty:  dirty,
	}
}

func (s *SubjectStore) Create(_ context.Context, sub *Subject) (*Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *sub
	c.ID = s.nextID
	s.nextID++
	s.data[c.ID] = &c
	s.dirty.Store(true)
	out := c
	return &out, nil
}

func (s *SubjectStore) Get(_ context.Context, id int64) (*Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.data[id]
	if !ok {
		return nil, NotFoundf("subject %d", id)
	}
	c := *sub
	return &c, nil
}

func (s *SubjectStore) ListByUser(_ context.Context, userID int64) ([]*Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Subject, 0)
	for _, sub := range s.data {
		if sub.UserID == userID {
			c := *sub
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *SubjectStore) update(id int64, fn func(sub *Subject)) (*Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.data[id]
	if !ok {
		return nil, NotFoundf("subject %d", id)
	}
	fn(sub)
	s.dirty.Store(true)
	c := *sub
	return &c, nil
}

func (s *SubjectStore) AddTime(_ context.Context, id int64, seconds int64) (*Subject, error) {
	return s.update(id, func(sub *Subject) {
		sub.TotalTime += seconds
	})
}

func (s *SubjectStore) SetDailyTarget(_ context.Context, id int64, seconds int64) (*Subject, error) {
	return s.update(id, func(sub *Subject) {
		sub.DailyTargetTime = seconds
	})
}

func (s *SubjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *SubjectStore) snapshot() []*Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Subject, 0, len(s.data))
	for _, sub := range s.data {
		c := *sub
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *SubjectStore) load(subjects []*Subject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[int64]*Subject, len(subjects))
	s.nextID = 1
	for _, sub := range subjects {
		if sub == nil {
			continue
		}
		c := *sub
		s.data[c.ID] = &c
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
}
