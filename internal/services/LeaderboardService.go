package services

import (
	"context"
	"sort"
	"studytime/internal/models"
	"studytime/internal/providers"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const leaderboardCacheKey = "leaderboard:all"

type LeaderboardServiceInterface interface {
	GetLeaderboard(ctx context.Context, currentUserID int64, timeframe string) ([]*models.LeaderboardEntry, error)
	// Invalidate drops the cached ranking after study time changes or a
	// user registers.
	Invalidate()
}

type LeaderboardService struct {
	store  models.Store
	cache  providers.CacheProviderInterface
	logger providers.Logger

	// gen counts invalidations. A ranking read under an older gen is not cached.
	gen atomic.Uint64
}

func NewLeaderboardService(store models.Store, cache providers.CacheProviderInterface, logger providers.Logger) LeaderboardServiceInterface {
	return &LeaderboardService{store: store, cache: cache, logger: logger}
}

func (ls *LeaderboardService) GetLeaderboard(ctx context.Context, currentUserID int64, timeframe string) ([]*models.LeaderboardEntry, error) {
	if _, err := models.ParseTimeframe(timeframe); err != nil {
		return nil, err
	}

	ranking, err := ls.ranking(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range ranking {
		e.IsCurrentUser = e.ID == currentUserID
	}
	return ranking, nil
}

func (ls *LeaderboardService) Invalidate() {
	ls.gen.Inc()
	ls.cache.Del(leaderboardCacheKey)
}

// ranking returns a fresh copy of the ordered list, from cache when possible.
func (ls *LeaderboardService) ranking(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	if data, ok := ls.cache.Get(leaderboardCacheKey); ok {
		var cached []*models.LeaderboardEntry
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		ls.logger.Warnf(providers.TypeApp, "Dropping undecodable leaderboard cache entry")
	}

	gen := ls.gen.Load()
	users, err := ls.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	ranking := make([]*models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		ranking = append(ranking, &models.LeaderboardEntry{
			ID:             u.ID,
			DisplayName:    u.DisplayName,
			TotalStudyTime: u.TotalStudyTime,
			Level:          u.Level,
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].TotalStudyTime != ranking[j].TotalStudyTime {
			return ranking[i].TotalStudyTime > ranking[j].TotalStudyTime
		}
		return ranking[i].ID < ranking[j].ID
	})

	if data, err := json.Marshal(ranking); err == nil && ls.gen.Load() == gen {
		ls.cache.Set(leaderboardCacheKey, data)
		// An Invalidate that landed between the check and Set may have
		// deleted before we wrote.
		if ls.gen.Load() != gen {
			ls.cache.Del(leaderboardCacheKey)
		}
	}
	return ranking, nil
}
