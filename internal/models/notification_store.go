package models

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/atomic"
)

type NotificationStore struct {
	mu     sync.RWMutex
	data   map[int64]*Notification
	nextID int64
	dirty  *atomic.Bool
}

func NewNotificationStore(dirty *atomic.Bool) *NotificationStore {
	return &NotificationStore{
		data:   make(map[int64]*Notification),
		nextID: 1,
		dirty:  dirty,
	}
}

func (s *NotificationStore) Create(_ context.Context, n *Notification) (*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *n
	c.ID = s.nextID
	s.nextID++
	s.data[c.ID] = &c
	s.dirty.Store(true)
	out := c
	return &out, nil
}

func (s *NotificationStore) Get(_ context.Context, id int64) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.data[id]
	if !ok {
		return nil, NotFoundf("notification %d", id)
	}
	c := *n
	return &c, nil
}

// ListByUser returns newest first. A non-positive limit means no limit.
func (s *NotificationStore) ListByUser(_ context.Context, userID int64, limit int) ([]*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Notification, 0)
	for _, n := range s.data {
		if n.UserID == userID {
			c := *n
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *NotificationStore) MarkRead(_ context.Context, id int64) (*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.data[id]
	if !ok {
		return nil, NotFoundf("notification %d", id)
	}
	n.Read = true
	s.dirty.Store(true)
	c := *n
	return &c, nil
}

func (s *NotificationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *NotificationStore) snapshot() []*Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Notification, 0, len(s.data))
	for _, n := range s.data {
		c := *n
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *NotificationStore) load(records []*Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[int64]*Notification, len(records))
	s.nextID = 1
	for _, n := range records {
		if n == nil {
			continue
		}
		c := *n
		s.data[c.ID] = &c
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
}
