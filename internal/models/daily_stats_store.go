package models

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/atomic"
)

type dailyKey struct {
	userID int64
	date   string
}

type DailyStatsStore struct {
	mu     sync.RWMutex
	data   map[dailyKey]*DailyStats
	nextID int64
	dirty  *atomic.Bool
}

func NewDailyStatsStore(dirty *atomic.Bool) *DailyStatsStore {
	return &DailyStatsStore{
		data:   make(map[dailyKey]*DailyStats),
		nextID: 1,
		dirty:  dirty,
	}
}

// Add creates the (user, date) row on first use and applies seconds to it.
func (s *DailyStatsStore) Add(_ context.Context, userID int64, date string, t SessionType, seconds int64, subjectID int64) (*DailyStats, error) {
	if !t.Valid() {
		return nil, Validationf("unknown session type %d", t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dailyKey{userID: userID, date: date}
	row, ok := s.data[key]
	if !ok {
		row = &DailyStats{
			ID:               s.nextID,
			UserID:           userID,
			Date:             date,
			SubjectBreakdown: make(map[int64]int64),
		}
		s.nextID++
		s.data[key] = row
	}
	row.Add(t, seconds, subjectID)
	s.dirty.Store(true)
	return row.Clone(), nil
}

// ListRange returns rows with startDate <= date <= endDate ordered by date.
// Dates share the fixed YYYY-MM-DD layout so string order is calendar order.
func (s *DailyStatsStore) ListRange(_ context.Context, userID int64, startDate, endDate string) ([]*DailyStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*DailyStats, 0)
	for key, row := range s.data {
		if key.userID != userID || key.date < startDate || key.date > endDate {
			continue
		}
		result = append(result, row.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (s *DailyStatsStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *DailyStatsStore) snapshot() []*DailyStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*DailyStats, 0, len(s.data))
	for _, row := range s.data {
		result = append(result, row.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *DailyStatsStore) load(rows []*DailyStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[dailyKey]*DailyStats, len(rows))
	s.nextID = 1
	for _, row := range rows {
		if row == nil {
			continue
		}
		c := row.Clone()
		s.data[dailyKey{userID: c.UserID, date: c.Date}] = c
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
}
