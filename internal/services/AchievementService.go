package services

import (
	"context"
	"fmt"
	"studytime/internal/models"
	"studytime/internal/providers"

	json "github.com/goccy/go-json"
)

const achievementCatalogCacheKey = "achievements:catalog"

type AchievementServiceInterface interface {
	// Evaluate unlocks every tier the user's total has reached and returns the
	// tiers unlocked by this call.
	Evaluate(ctx context.Context, userID int64) ([]*models.Achievement, error)
	GetAchievements(ctx context.Context, userID int64) ([]*models.AchievementStatus, error)
}

type AchievementService struct {
	store   models.Store
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
	clock   providers.Clock
	logger  providers.Logger
}

func NewAchievementService(store models.Store, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface, clock providers.Clock, logger providers.Logger) AchievementServiceInterface {
	return &AchievementService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		clock:   clock,
		logger:  logger,
	}
}

func (as *AchievementService) Evaluate(ctx context.Context, userID int64) ([]*models.Achievement, error) {
	user, err := as.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog, err := as.catalog(ctx)
	if err != nil {
		return nil, err
	}

	owned, err := as.store.Achievements().ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	has := make(map[int64]bool, len(owned))
	for _, ua := range owned {
		has[ua.AchievementID] = true
	}

	var (
		unlocked []*models.Achievement
		highest  *models.Achievement
	)
	for _, a := range catalog {
		if a.RequiredTime > user.TotalStudyTime {
			continue
		}
		if highest == nil || a.Level > highest.Level {
			highest = a
		}
		if has[a.ID] {
			continue
		}

		// A tier stays locked until its notification is stored.
		now := as.clock.Now()
		_, err = as.store.Notifications().Create(ctx, &models.Notification{
			UserID:    userID,
			Type:      models.NotificationAchievement,
			Message:   fmt.Sprintf("You've unlocked a new achievement: %s!", a.Name),
			CreatedAt: now,
		})
		if err != nil {
			return unlocked, fmt.Errorf("notify %q: %w", a.Name, err)
		}
		_, created, err := as.store.Achievements().Unlock(ctx, userID, a.ID, now)
		if err != nil {
			return unlocked, fmt.Errorf("unlock %q: %w", a.Name, err)
		}
		if !created {
			continue
		}
		unlocked = append(unlocked, a)
		as.metrics.IncAchievementsUnlocked(a.Name)
		as.logger.Infof(providers.TypeSession, "User %d unlocked %q", userID, a.Name)
	}

	if highest != nil && models.TierLevel(user.Level) < highest.Level {
		if _, err := as.store.Users().RaiseLevel(ctx, userID, highest.Name); err != nil {
			return unlocked, fmt.Errorf("raise level: %w", err)
		}
	}
	return unlocked, nil
}

func (as *AchievementService) GetAchievements(ctx context.Context, userID int64) ([]*models.AchievementStatus, error) {
	catalog, err := as.catalog(ctx)
	if err != nil {
		return nil, err
	}
	owned, err := as.store.Achievements().ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.UserAchievement, len(owned))
	for _, ua := range owned {
		byID[ua.AchievementID] = ua
	}

	result := make([]*models.AchievementStatus, 0, len(catalog))
	for _, a := range catalog {
		st := &models.AchievementStatus{Achievement: *a}
		if ua, ok := byID[a.ID]; ok {
			at := ua.UnlockedAt
			st.Unlocked = true
			st.UnlockedAt = &at
		}
		result = append(result, st)
	}
	return result, nil
}

// catalog is static after store creation, so it stays cached until the TTL
// expires.
func (as *AchievementService) catalog(ctx context.Context) ([]*models.Achievement, error) {
	if data, ok := as.cache.Get(achievementCatalogCacheKey); ok {
		var cached []*models.Achievement
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}
	catalog, err := as.store.Achievements().List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(catalog); err == nil {
		as.cache.Set(achievementCatalogCacheKey, data)
	}
	return catalog, nil
}
