package models

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type unlockKey struct {
	userID        int64
	achievementID int64
}

// AchievementStore serves the fixed tier catalog and per-user unlock records.
type AchievementStore struct {
	mu       sync.RWMutex
	catalog  []Achievement
	unlocked map[unlockKey]*UserAchievement
	nextID   int64
	dirty    *atomic.Bool
}

func NewAchievementStore(dirty *atomic.Bool) *AchievementStore {
	catalog := make([]Achievement, len(Tiers))
	copy(catalog, Tiers)
	return &AchievementStore{
		catalog:  catalog,
		unlocked: make(map[unlockKey]*UserAchievement),
		nextID:   1,
		dirty:    dirty,
	}
}

func (s *AchievementStore) List(_ context.Context) ([]*Achievement, error) {
	result := make([]*Achievement, 0, len(s.catalog))
	for i := range s.catalog {
		a := s.catalog[i]
		result = append(result, &a)
	}
	return result, nil
}

func (s *AchievementStore) ListUnlocked(_ context.Context, userID int64) ([]*UserAchievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*UserAchievement, 0)
	for key, ua := range s.unlocked {
		if key.userID == userID {
			c := *ua
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AchievementID < result[j].AchievementID })
	return result, nil
}

func (s *AchievementStore) Unlock(_ context.Context, userID, achievementID int64, at time.Time) (*UserAchievement, bool, error) {
	if !s.known(achievementID) {
		return nil, false, NotFoundf("achievement %d", achievementID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := unlockKey{userID: userID, achievementID: achievementID}
	if ua, ok := s.unlocked[key]; ok {
		c := *ua
		return &c, false, nil
	}
	ua := &UserAchievement{
		ID:            s.nextID,
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    at,
	}
	s.nextID++
	s.unlocked[key] = ua
	s.dirty.Store(true)
	c := *ua
	return &c, true, nil
}

func (s *AchievementStore) known(id int64) bool {
	for _, a := range s.catalog {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (s *AchievementStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.unlocked)
}

func (s *AchievementStore) snapshot() []*UserAchievement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*UserAchievement, 0, len(s.unlocked))
	for _, ua := range s.unlocked {
		c := *ua
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *AchievementStore) load(records []*UserAchievement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocked = make(map[unlockKey]*UserAchievement, len(records))
	s.nextID = 1
	for _, ua := range records {
		if ua == nil {
			continue
		}
		c := *ua
		s.unlocked[unlockKey{userID: c.UserID, achievementID: c.AchievementID}] = &c
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
}
