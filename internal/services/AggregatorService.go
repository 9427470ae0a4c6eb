package services

import (
	"context"
	"fmt"
	"studytime/internal/models"
	"studytime/internal/providers"
)

type AggregatorServiceInterface interface {
	// OnSessionEnded folds an ended session into the user, subject and daily totals.
	OnSessionEnded(ctx context.Context, s *models.Session) error
}

type AggregatorService struct {
	store        models.Store
	achievements AchievementServiceInterface
	leaderboard  LeaderboardServiceInterface
	metrics      providers.MetricsProviderInterface
	clock        providers.Clock
	logger       providers.Logger
}

func NewAggregatorService(store models.Store, achievements AchievementServiceInterface, leaderboard LeaderboardServiceInterface, metrics providers.MetricsProviderInterface, clock providers.Clock, logger providers.Logger) AggregatorServiceInterface {
	return &AggregatorService{
		store:        store,
		achievements: achievements,
		leaderboard:  leaderboard,
		metrics:      metrics,
		clock:        clock,
		logger:       logger,
	}
}

func (ag *AggregatorService) OnSessionEnded(ctx context.Context, s *models.Session) error {
	if s.IsActive || s.Duration == nil {
		return models.InvalidStatef("session %d has not ended", s.ID)
	}
	d := *s.Duration
	// A session spanning midnight lands entirely on the day it ends.
	endedAt := ag.clock.Now()
	if s.EndTime != nil {
		endedAt = *s.EndTime
	}
	date := models.DateKey(endedAt)

	switch s.Type {
	case models.SessionStudy:
		if err := ag.onStudy(ctx, s, d, date); err != nil {
			return err
		}
	case models.SessionBreak, models.SessionSleep:
		if _, err := ag.store.DailyStats().Add(ctx, s.UserID, date, s.Type, d, 0); err != nil {
			return fmt.Errorf("daily %s time: %w", s.Type, err)
		}
	default:
		return models.Validationf("unknown session type %d", uint8(s.Type))
	}

	ag.metrics.AddAccountedSeconds(s.Type.String(), d)
	ag.logger.Debugf(providers.TypeSession, "Accounted %ds of %s for user %d on %s", d, s.Type, s.UserID, date)
	return nil
}

func (ag *AggregatorService) onStudy(ctx context.Context, s *models.Session, d int64, date string) error {
	if _, err := ag.store.Users().AddStudyTime(ctx, s.UserID, d); err != nil {
		return fmt.Errorf("user study time: %w", err)
	}
	if s.SubjectID > 0 {
		if _, err := ag.store.Subjects().AddTime(ctx, s.SubjectID, d); err != nil {
			return fmt.Errorf("subject time: %w", err)
		}
	}
	if _, err := ag.store.DailyStats().Add(ctx, s.UserID, date, models.SessionStudy, d, s.SubjectID); err != nil {
		return fmt.Errorf("daily study time: %w", err)
	}

	if _, err := ag.achievements.Evaluate(ctx, s.UserID); err != nil {
		ag.logger.Errorf(providers.TypeSession, "Achievement evaluation failed for user %d: %s", s.UserID, err)
	}
	ag.leaderboard.Invalidate()
	return nil
}
