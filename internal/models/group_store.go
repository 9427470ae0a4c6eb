package models

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/atomic"
)

type GroupStore struct {
	mu           sync.RWMutex
	groups       map[int64]*Group
	members      map[int64]*GroupMember
	nextGroupID  int64
	nextMemberID int64
	dirty        *atomic.Bool
}

func NewGroupStore(dirty *atomic.Bool) *GroupStore {
	return &GroupStore{
		groups:       make(map[int64]*Group),
		members:      make(map[int64]*GroupMember),
		nextGroupID:  1,
		nextMemberID: 1,
		dirty:        dirty,
	}
}

func (s *GroupStore) Create(_ context.Context, g *Group) (*Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *g
	c.ID = s.nextGroupID
	s.nextGroupID++
	s.groups[c.ID] = &c
	s.dirty.Store(true)
	out := c
	return &out, nil
}

func (s *GroupStore) Get(_ context.Context, id int64) (*Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, NotFoundf("group %d", id)
	}
	c := *g
	return &c, nil
}

func (s *GroupStore) AddMember(_ context.Context, m *GroupMember) (*GroupMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[m.GroupID]; !ok {
		return nil, NotFoundf("group %d", m.GroupID)
	}
	for _, existing := range s.members {
		if existing.GroupID == m.GroupID && existing.UserID == m.UserID {
			return nil, Conflictf("user %d is already a member of group %d", m.UserID, m.GroupID)
		}
	}
	c := *m
	c.ID = s.nextMemberID
	s.nextMemberID++
	s.members[c.ID] = &c
	s.dirty.Store(true)
	out := c
	return &out, nil
}

func (s *GroupStore) ListByUser(_ context.Context, userID int64) ([]*Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Group, 0)
	for _, m := range s.members {
		if m.UserID != userID {
			continue
		}
		if g, ok := s.groups[m.GroupID]; ok {
			c := *g
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *GroupStore) Members(_ context.Context, groupID int64) ([]*GroupMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.groups[groupID]; !ok {
		return nil, NotFoundf("group %d", groupID)
	}
	result := make([]*GroupMember, 0)
	for _, m := range s.members {
		if m.GroupID == groupID {
			c := *m
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *GroupStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups)
}

func (s *GroupStore) snapshot() ([]*Group, []*GroupMember) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := make([]*Group, 0, len(s.groups))
	for _, g := range s.groups {
		c := *g
		groups = append(groups, &c)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	members := make([]*GroupMember, 0, len(s.members))
	for _, m := range s.members {
		c := *m
		members = append(members, &c)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return groups, members
}

func (s *GroupStore) load(groups []*Group, members []*GroupMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = make(map[int64]*Group, len(groups))
	s.members = make(map[int64]*GroupMember, len(members))
	s.nextGroupID, s.nextMemberID = 1, 1
	for _, g := range groups {
		if g == nil {
			continue
		}
		c := *g
		s.groups[c.ID] = &c
		if c.ID >= s.nextGroupID {
			s.nextGroupID = c.ID + 1
		}
	}
	for _, m := range members {
		if m == nil {
			continue
		}
		c := *m
		s.members[c.ID] = &c
		if c.ID >= s.nextMemberID {
			s.nextMemberID = c.ID + 1
		}
	}
}
